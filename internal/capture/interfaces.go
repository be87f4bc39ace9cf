package capture

import (
	"context"
	"time"
)

// Viewer drives the interactive surface rendering one newspaper page at a
// time. Implementations own exactly one browsing context per session.
type Viewer interface {
	// Open navigates to the viewer entry point for one issue.
	Open(ctx context.Context, locator string) error
	// Candidates returns every page-bearing element present right now.
	// Pure read; no navigation side effects.
	Candidates(ctx context.Context) ([]PageCandidate, error)
	// Advance issues the "next page" action.
	Advance(ctx context.Context) error
}

// Extractor obtains the pixel content and fingerprint of one
// page-eligible candidate.
type Extractor interface {
	Extract(ctx context.Context, candidate PageCandidate) (ExtractedPage, error)
}

// PageStore persists one intermediate page image keyed by sequence index.
// Used for crash recovery and inspection; not required for correctness of
// the final document.
type PageStore interface {
	PutPage(ctx context.Context, seq int, format string, data []byte) (string, error)
}

// Assembler emits one output document from an ordered page set.
type Assembler interface {
	Assemble(ctx context.Context, pages []CapturedPage, dest string) error
}

// RetryPolicy decides whether a failed attempt warrants another try and
// how long to back off before it.
type RetryPolicy interface {
	ShouldRetry(err error, attempt int) bool
	Backoff(attempt int) time.Duration
}

// Hasher computes content fingerprints for deduplication.
type Hasher interface {
	Hash(data []byte) (string, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// Pauser blocks for a bounded delay, honoring cancellation. Injecting a
// no-op pauser lets driver tests run without real sleeps.
type Pauser interface {
	Pause(ctx context.Context, delay time.Duration)
}
