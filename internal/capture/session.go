package capture

// Session holds the state of one capture run: the ordered page set, the
// fingerprints seen so far, and bookkeeping for skipped positions. It is
// owned by a single Driver and is not safe for concurrent use.
type Session struct {
	runID      string
	pages      []CapturedPage
	seen       map[string]int
	skipped    int
	incomplete bool
}

// NewSession creates an empty session for one issue run.
func NewSession(runID string) *Session {
	return &Session{
		runID: runID,
		seen:  make(map[string]int),
	}
}

// Seen reports whether a fingerprint has already been captured.
func (s *Session) Seen(fingerprint string) bool {
	_, ok := s.seen[fingerprint]
	return ok
}

// Admit inserts an extracted page, assigning the next sequence index.
// Pages whose fingerprint is already present are rejected and the second
// return value is false; the index space is never consumed by duplicates.
func (s *Session) Admit(page ExtractedPage) (CapturedPage, bool) {
	if _, dup := s.seen[page.Fingerprint]; dup {
		return CapturedPage{}, false
	}
	captured := CapturedPage{
		SequenceIndex: len(s.pages) + 1,
		Fingerprint:   page.Fingerprint,
		ImageBytes:    page.ImageBytes,
		Format:        page.Format,
		Width:         page.Width,
		Height:        page.Height,
	}
	s.pages = append(s.pages, captured)
	s.seen[page.Fingerprint] = captured.SequenceIndex
	return captured, true
}

// MarkSkipped records a page position abandoned after retry exhaustion.
func (s *Session) MarkSkipped() {
	s.skipped++
}

// MarkIncomplete flags the run as having stalled before end-of-issue.
func (s *Session) MarkIncomplete() {
	s.incomplete = true
}

// Len returns the number of unique pages captured so far.
func (s *Session) Len() int {
	return len(s.pages)
}

// Result freezes the session into an ordered, deduplicated page set.
func (s *Session) Result() *Result {
	pages := make([]CapturedPage, len(s.pages))
	copy(pages, s.pages)
	return &Result{
		RunID:            s.runID,
		Pages:            pages,
		Incomplete:       s.incomplete,
		SkippedPositions: s.skipped,
	}
}
