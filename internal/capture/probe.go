package capture

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// ProbeFilter classifies viewer candidates into thumbnails, placeholders,
// and page-eligible candidates. Classification is a pure read of the
// candidate; the filter holds only tuning thresholds.
type ProbeFilter struct {
	// minPageWidth is the rendered width below which a candidate is a
	// thumbnail strip rather than a full page. This width heuristic is
	// the one knob expected to need tuning if the viewer markup changes.
	minPageWidth int
	// minPayloadBytes is the smallest decoded payload a rendered page can
	// plausibly produce. Blank canvases compress to almost nothing, so a
	// tiny payload means the page has not rendered yet.
	minPayloadBytes int
}

// NewProbeFilter builds a filter with the configured thresholds.
func NewProbeFilter(minPageWidth, minPayloadBytes int) *ProbeFilter {
	return &ProbeFilter{
		minPageWidth:    minPageWidth,
		minPayloadBytes: minPayloadBytes,
	}
}

// Classify assigns a candidate to exactly one class.
func (f *ProbeFilter) Classify(c PageCandidate) Class {
	if c.Width < f.minPageWidth {
		return ClassThumbnail
	}
	if !f.resolved(c) {
		return ClassPlaceholder
	}
	return ClassPage
}

// Partition splits candidates into page-eligible and placeholder sets.
// Thumbnails are dropped.
func (f *ProbeFilter) Partition(cands []PageCandidate) (pages, placeholders []PageCandidate) {
	for _, c := range cands {
		switch f.Classify(c) {
		case ClassPage:
			pages = append(pages, c)
		case ClassPlaceholder:
			placeholders = append(placeholders, c)
		}
	}
	return pages, placeholders
}

// resolved reports whether the candidate carries a usable pixel payload.
func (f *ProbeFilter) resolved(c PageCandidate) bool {
	ref := strings.TrimSpace(c.SourceRef)
	if ref == "" || ref == "about:blank" {
		return false
	}
	if !strings.HasPrefix(ref, "data:") {
		// Remote locators are resolved by definition; a broken resource
		// surfaces later as an extraction failure, not a placeholder.
		return true
	}
	comma := strings.IndexByte(ref, ',')
	if comma < 0 || !strings.HasPrefix(ref, "data:image") {
		return false
	}
	// Base64 expands payload bytes 4:3; estimating avoids decoding every
	// candidate just to classify it.
	approx := (len(ref) - comma - 1) * 3 / 4
	return approx >= f.minPayloadBytes
}

// Signature derives an order-independent identity for a candidate set.
// The driver compares signatures across an advance attempt to detect
// navigation stalls; it is not a content fingerprint.
func Signature(cands []PageCandidate) string {
	if len(cands) == 0 {
		return ""
	}
	refs := make([]string, 0, len(cands))
	for _, c := range cands {
		refs = append(refs, c.SourceRef)
	}
	sort.Strings(refs)
	sum := sha256.Sum256([]byte(strings.Join(refs, "\x00")))
	return hex.EncodeToString(sum[:])
}
