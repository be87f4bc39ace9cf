package capture

// CandidateKind identifies the rendering element a candidate came from.
type CandidateKind string

// Candidate kinds reported by the viewer probe.
const (
	KindCanvas CandidateKind = "canvas"
	KindImage  CandidateKind = "img"
)

// PageCandidate is a transient descriptor of one page-bearing element
// observed in the viewer during a single probe cycle. It is created fresh
// each cycle and discarded after classification.
type PageCandidate struct {
	Kind   CandidateKind
	Width  int
	Height int
	// SourceRef is either an inline data URL (canvas snapshots) or a
	// remote locator to be fetched with the authenticated session.
	SourceRef string
}

// Class is the probe's verdict on a candidate.
type Class int

// Probe classifications.
const (
	// ClassThumbnail marks preview strips below the page-width threshold.
	ClassThumbnail Class = iota
	// ClassPlaceholder marks elements whose pixel payload has not resolved
	// yet; placeholders are retried, never extracted.
	ClassPlaceholder
	// ClassPage marks full-resolution, extraction-eligible candidates.
	ClassPage
)

func (c Class) String() string {
	switch c {
	case ClassThumbnail:
		return "thumbnail"
	case ClassPlaceholder:
		return "placeholder"
	case ClassPage:
		return "page"
	default:
		return "unknown"
	}
}

// ExtractedPage carries the pixel content of one candidate before it has
// been admitted into a session and assigned a sequence index.
type ExtractedPage struct {
	Fingerprint string
	ImageBytes  []byte
	Format      string
	Width       int
	Height      int
}

// CapturedPage is a confirmed unique page. It is immutable once created;
// corrections are modeled as fingerprint-driven rejection, not edits.
type CapturedPage struct {
	SequenceIndex int
	Fingerprint   string
	ImageBytes    []byte
	Format        string
	Width         int
	Height        int
}

// Result is the completed output of one capture run, handed to the
// assembler after the driver reaches its terminal state.
type Result struct {
	RunID string
	Pages []CapturedPage
	// Incomplete is set when navigation stalled before a clean
	// end-of-issue signal, so the issue may be missing trailing pages.
	Incomplete bool
	// SkippedPositions counts page positions abandoned after the render
	// retry budget was exhausted.
	SkippedPositions int
}
