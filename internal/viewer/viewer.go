// Package viewer drives the newspaper reading surface through chromedp.
// It implements capture.Viewer on top of a single persistent browser tab,
// because the viewer preloads pages into the tab it was opened in.
package viewer

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/chromedp/cdproto/network"
	cdpstorage "github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"go.uber.org/zap"

	"github.com/issuecap/issuecap/internal/capture"
)

// Config controls how the viewer surface is driven.
type Config struct {
	// RootSelector is the container the probe scans; everything outside
	// it is viewer chrome.
	RootSelector string
	// NextSelector locates the next-page button. Empty means keyboard
	// navigation only.
	NextSelector string
	// WarmupSelectors are clicked in order after the issue opens, each
	// tolerated if absent. The portal's reading mode sits behind a couple
	// of such buttons.
	WarmupSelectors []string
	// MinElementPx filters out tiny UI icons inside the probe script.
	MinElementPx int
	// StepTimeout bounds every individual viewer operation.
	StepTimeout time.Duration
	// ClickTimeout bounds optional clicks (warmup, next button) so a
	// missing element falls through quickly.
	ClickTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.RootSelector == "" {
		c.RootSelector = "#app"
	}
	if c.MinElementPx == 0 {
		c.MinElementPx = 100
	}
	if c.StepTimeout == 0 {
		c.StepTimeout = 20 * time.Second
	}
	if c.ClickTimeout == 0 {
		c.ClickTimeout = 3 * time.Second
	}
	return c
}

// Viewer owns one browser tab for the duration of a capture session.
type Viewer struct {
	cfg       Config
	tabCtx    context.Context
	tabCancel context.CancelFunc
	logger    *zap.Logger
}

// New opens a tab in the given browser context.
func New(browserCtx context.Context, cfg Config, logger *zap.Logger) *Viewer {
	tabCtx, tabCancel := chromedp.NewContext(browserCtx)
	return &Viewer{
		cfg:       cfg.withDefaults(),
		tabCtx:    tabCtx,
		tabCancel: tabCancel,
		logger:    logger,
	}
}

// TabContext exposes the tab's chromedp context so collaborators (the
// login flow) can act on the same authenticated tab.
func (v *Viewer) TabContext() context.Context {
	return v.tabCtx
}

// Close tears down the tab.
func (v *Viewer) Close() {
	v.tabCancel()
}

// Open navigates to the issue entry point and clicks through the
// configured warmup elements.
func (v *Viewer) Open(ctx context.Context, locator string) error {
	err := v.run(ctx, v.cfg.StepTimeout,
		chromedp.Navigate(locator),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("navigate to issue: %w", err)
	}

	for _, sel := range v.cfg.WarmupSelectors {
		if err := v.click(ctx, sel); err != nil {
			v.logger.Debug("warmup element not found, continuing",
				zap.String("selector", sel),
				zap.Error(err))
		}
	}
	return nil
}

// Candidates evaluates the probe script and returns every page-bearing
// element present right now. Pure read of the current render state.
func (v *Viewer) Candidates(ctx context.Context) ([]capture.PageCandidate, error) {
	var infos []candidateInfo
	err := v.run(ctx, v.cfg.StepTimeout,
		chromedp.Evaluate(probeScript(v.cfg.RootSelector, v.cfg.MinElementPx), &infos),
	)
	if err != nil {
		return nil, fmt.Errorf("evaluate probe: %w", err)
	}

	cands := make([]capture.PageCandidate, 0, len(infos))
	for _, info := range infos {
		kind := capture.KindImage
		if info.Kind == "canvas" {
			kind = capture.KindCanvas
		}
		cands = append(cands, capture.PageCandidate{
			Kind:      kind,
			Width:     int(info.Width),
			Height:    int(info.Height),
			SourceRef: info.Src,
		})
	}
	return cands, nil
}

// Advance clicks the next-page button when usable, falling back to the
// right arrow key the way a reader would page forward.
func (v *Viewer) Advance(ctx context.Context) error {
	if v.cfg.NextSelector != "" {
		if err := v.click(ctx, v.cfg.NextSelector); err == nil {
			return nil
		} else {
			v.logger.Debug("next button not usable, sending arrow key", zap.Error(err))
		}
	}
	if err := v.run(ctx, v.cfg.StepTimeout, chromedp.KeyEvent(kb.ArrowRight)); err != nil {
		return fmt.Errorf("send arrow key: %w", err)
	}
	return nil
}

// Cookies exports the tab's cookie jar so non-inline page resources can
// be fetched with the same authenticated session.
func (v *Viewer) Cookies(ctx context.Context) ([]*http.Cookie, error) {
	var raw []*network.Cookie
	err := v.run(ctx, v.cfg.StepTimeout, chromedp.ActionFunc(func(c context.Context) error {
		var err error
		raw, err = cdpstorage.GetCookies().Do(c)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("export cookies: %w", err)
	}

	cookies := make([]*http.Cookie, 0, len(raw))
	for _, c := range raw {
		cookies = append(cookies, &http.Cookie{
			Name:   c.Name,
			Value:  c.Value,
			Domain: c.Domain,
			Path:   c.Path,
			Secure: c.Secure,
		})
	}
	return cookies, nil
}

func (v *Viewer) click(ctx context.Context, selector string) error {
	return v.run(ctx, v.cfg.ClickTimeout,
		chromedp.Click(selector, chromedp.ByQuery),
	)
}

// run executes actions against the session tab with a bounded timeout,
// forwarding cancellation from the caller's context.
func (v *Viewer) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	taskCtx, cancel := context.WithTimeout(v.tabCtx, timeout)
	defer cancel()

	stop := forwardCancel(ctx, cancel)
	defer stop()

	return chromedp.Run(taskCtx, actions...)
}

// candidateInfo mirrors the objects produced by the probe script.
type candidateInfo struct {
	Src    string  `json:"src"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Kind   string  `json:"kind"`
}

// forwardCancel propagates cancellation of parent to cancel until the
// returned stop function is called.
func forwardCancel(parent context.Context, cancel context.CancelFunc) func() {
	if parent == nil {
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		select {
		case <-parent.Done():
			cancel()
		case <-done:
		}
	}()
	return func() { close(done) }
}
