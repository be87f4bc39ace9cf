// Package capture implements the page discovery and capture loop for a
// paginated, canvas-rendered newspaper viewer: candidate classification,
// content extraction and fingerprinting, and the pagination state machine
// that assembles an ordered, deduplicated page set for one issue.
package capture
