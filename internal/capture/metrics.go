package capture

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PagesCaptured tracks unique pages admitted into a session.
	PagesCaptured = promauto.NewCounter(prometheus.CounterOpts{
		Name: "capture_pages_total",
		Help: "The total number of unique pages captured.",
	})
	// DuplicatesDiscarded tracks extractions rejected as preload duplicates.
	DuplicatesDiscarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "capture_duplicates_total",
		Help: "The total number of duplicate pages discarded during dedup.",
	})
	// ExtractRetries tracks retried extraction attempts.
	ExtractRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "capture_extract_retries_total",
		Help: "The total number of extraction attempts that were retried.",
	})
	// CandidatesDropped tracks candidates dropped after retry exhaustion.
	CandidatesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "capture_candidates_dropped_total",
		Help: "The total number of candidates dropped after exhausting extraction retries.",
	})
	// RenderStalls tracks page positions skipped because they never left
	// placeholder state.
	RenderStalls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "capture_render_stalls_total",
		Help: "The total number of page positions skipped due to render stalls.",
	})
	// NavigationStalls tracks advance attempts that left content unchanged.
	NavigationStalls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "capture_navigation_stalls_total",
		Help: "The total number of navigation advance attempts that did not change content.",
	})
	// RemoteFetches tracks authenticated HTTP fetches of page resources.
	RemoteFetches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "capture_remote_fetches_total",
		Help: "The total number of authenticated HTTP fetches for non-inline page resources.",
	})
	// RemoteFetchErrors tracks failed authenticated fetches.
	RemoteFetchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "capture_remote_fetch_errors_total",
		Help: "The total number of failed authenticated HTTP fetches.",
	})
)
