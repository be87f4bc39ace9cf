package capture

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// State identifies a pagination driver state.
type State int

// Driver states.
const (
	StateInit State = iota
	StateProbing
	StateExtracting
	StateAdvancing
	StateDraining
	StateDone
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateProbing:
		return "probing"
	case StateExtracting:
		return "extracting"
	case StateAdvancing:
		return "advancing"
	case StateDraining:
		return "draining"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// emptyProbeConfirmations is how many consecutive empty probes signal
// end-of-issue: a single empty probe can be a settling page, two in a row
// means there is nothing left to render.
const emptyProbeConfirmations = 2

// Driver is the pagination state machine. It walks an unknown-length
// sequence of rendered pages, deduplicates preloaded pages by content
// fingerprint, recovers from render and navigation stalls, and infers
// end-of-issue from repeated absence of new content. One Driver owns one
// viewer surface; steps never overlap.
type Driver struct {
	cfg       Config
	viewer    Viewer
	extractor Extractor
	filter    *ProbeFilter
	store     PageStore
	retry     RetryPolicy
	pauser    Pauser
	logger    *zap.Logger
}

// NewDriver constructs a driver. store may be nil to skip intermediate
// page persistence.
func NewDriver(
	cfg Config,
	viewer Viewer,
	extractor Extractor,
	store PageStore,
	retry RetryPolicy,
	pauser Pauser,
	logger *zap.Logger,
) (*Driver, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("driver config: %w", err)
	}
	return &Driver{
		cfg:       cfg,
		viewer:    viewer,
		extractor: extractor,
		filter:    NewProbeFilter(cfg.MinPageWidth, cfg.MinPayloadBytes),
		store:     store,
		retry:     retry,
		pauser:    pauser,
		logger:    logger,
	}, nil
}

// Run executes the capture loop until end-of-issue or a fatal failure.
// Cancellation is honored between state-machine steps; in-flight
// extraction of the current candidate is allowed to finish.
func (d *Driver) Run(ctx context.Context, runID string) (*Result, error) {
	if d.cfg.RunBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.RunBudget)
		defer cancel()
	}

	session := NewSession(runID)
	state := StateInit
	var (
		eligible      []PageCandidate
		lastSignature string
		emptyProbes   int
		renderRetries int
		stallRetries  int
	)

	for {
		if err := ctx.Err(); err != nil {
			if session.Len() > 0 {
				// The budget or an operator stop ended the run mid-issue;
				// the pages already captured are still a valid document.
				session.MarkIncomplete()
				d.logger.Warn("run interrupted, draining captured pages",
					zap.String("run_id", runID),
					zap.Int("pages", session.Len()),
					zap.Error(err))
				return session.Result(), nil
			}
			return nil, NewRunError(PhaseNavigation, fmt.Errorf("%w: %v", ErrCanceled, err))
		}

		switch state {
		case StateInit:
			d.logger.Info("opening issue",
				zap.String("run_id", runID),
				zap.String("locator", d.cfg.IssueLocator))
			if err := d.viewer.Open(ctx, d.cfg.IssueLocator); err != nil {
				return nil, NewRunError(PhaseNavigation, fmt.Errorf("open issue: %w", err))
			}
			d.pauser.Pause(ctx, d.cfg.SettleDelay)
			state = StateProbing

		case StateProbing:
			cands, err := d.viewer.Candidates(ctx)
			if err != nil {
				// Navigation can destroy the page's script context; probe
				// errors are handled like unrendered content.
				d.logger.Debug("probe failed", zap.Error(err))
				cands = nil
			}
			pages, placeholders := d.filter.Partition(cands)
			lastSignature = Signature(cands)

			switch {
			case len(pages) > 0:
				eligible = pages
				emptyProbes, renderRetries = 0, 0
				state = StateExtracting
			case len(placeholders) > 0 || err != nil:
				emptyProbes = 0
				renderRetries++
				if renderRetries > d.cfg.MaxRenderRetries {
					RenderStalls.Inc()
					session.MarkSkipped()
					d.logger.Warn("position never rendered, skipping",
						zap.Int("captured", session.Len()),
						zap.Int("retries", renderRetries-1))
					renderRetries = 0
					state = StateAdvancing
				} else {
					d.pauser.Pause(ctx, d.retry.Backoff(renderRetries))
				}
			default:
				emptyProbes++
				if emptyProbes >= emptyProbeConfirmations {
					state = StateDraining
				} else {
					d.pauser.Pause(ctx, d.cfg.SettleDelay)
				}
			}

		case StateExtracting:
			for _, cand := range eligible {
				d.captureCandidate(ctx, session, cand)
			}
			eligible = nil
			state = StateAdvancing

		case StateAdvancing:
			if d.advance(ctx, lastSignature) {
				stallRetries = 0
				state = StateProbing
				continue
			}
			stallRetries++
			NavigationStalls.Inc()
			if stallRetries >= d.cfg.MaxStallRetries {
				// Unchanged content across the stall budget most plausibly
				// means end-of-issue, not a transient failure.
				session.MarkIncomplete()
				d.logger.Info("navigation stalled, treating as end of issue",
					zap.Int("attempts", stallRetries),
					zap.Int("pages", session.Len()))
				state = StateDraining
			} else {
				d.pauser.Pause(ctx, d.retry.Backoff(stallRetries))
			}

		case StateDraining:
			if session.Len() == 0 {
				return nil, NewRunError(PhaseExtraction, ErrNoPages)
			}
			state = StateDone

		case StateDone:
			d.logger.Info("capture complete",
				zap.String("run_id", runID),
				zap.Int("pages", session.Len()),
				zap.Int("skipped", session.skipped),
				zap.Bool("incomplete", session.incomplete))
			return session.Result(), nil
		}
	}
}

// captureCandidate extracts one candidate with bounded retries, admitting
// it into the session unless its fingerprint was already seen.
func (d *Driver) captureCandidate(ctx context.Context, session *Session, cand PageCandidate) {
	for attempt := 0; ; attempt++ {
		page, err := d.extractor.Extract(ctx, cand)
		if err == nil {
			captured, ok := session.Admit(page)
			if !ok {
				DuplicatesDiscarded.Inc()
				d.logger.Debug("duplicate page discarded",
					zap.String("fingerprint", shortFingerprint(page.Fingerprint)))
				return
			}
			PagesCaptured.Inc()
			d.logger.Info("captured page",
				zap.Int("seq", captured.SequenceIndex),
				zap.String("fingerprint", shortFingerprint(captured.Fingerprint)),
				zap.Int("width", captured.Width),
				zap.Int("height", captured.Height),
				zap.String("format", captured.Format))
			d.persist(ctx, captured)
			return
		}

		if !d.retry.ShouldRetry(err, attempt+1) {
			CandidatesDropped.Inc()
			d.logger.Warn("dropping candidate after extraction failures",
				zap.Int("attempts", attempt+1),
				zap.Error(err))
			return
		}
		ExtractRetries.Inc()
		d.pauser.Pause(ctx, d.retry.Backoff(attempt))
	}
}

// advance issues the next-page action and reports whether the visible
// content changed. Errors count as "no change" so they draw down the
// stall budget instead of aborting the run.
func (d *Driver) advance(ctx context.Context, before string) bool {
	if err := d.viewer.Advance(ctx); err != nil {
		d.logger.Warn("advance failed", zap.Error(err))
		return false
	}
	d.pauser.Pause(ctx, d.cfg.SettleDelay)

	cands, err := d.viewer.Candidates(ctx)
	if err != nil {
		d.logger.Warn("probe after advance failed", zap.Error(err))
		return false
	}
	return Signature(cands) != before
}

func (d *Driver) persist(ctx context.Context, page CapturedPage) {
	if d.store == nil {
		return
	}
	if _, err := d.store.PutPage(ctx, page.SequenceIndex, page.Format, page.ImageBytes); err != nil {
		d.logger.Warn("persist intermediate page",
			zap.Int("seq", page.SequenceIndex),
			zap.Error(err))
	}
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
