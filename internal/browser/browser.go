// Package browser boots and tears down the headless Chrome process that
// hosts one capture session.
package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"
)

// Config controls how the browser process is launched.
type Config struct {
	Headless     bool
	UserAgent    string
	WindowWidth  int
	WindowHeight int
	// ExecPath overrides the Chrome binary location; empty means the
	// standard search paths.
	ExecPath string
}

// Browser owns the chromedp allocator and browser contexts. One Browser
// corresponds to exactly one exclusive browsing session.
type Browser struct {
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// New launches the browser and warms it up so a dead Chrome install
// fails fast rather than on the first navigation.
func New(parent context.Context, cfg Config) (*Browser, error) {
	if cfg.WindowWidth <= 0 {
		cfg.WindowWidth = 1920
	}
	if cfg.WindowHeight <= 0 {
		cfg.WindowHeight = 1080
	}

	opts := chromedp.DefaultExecAllocatorOptions[:]
	opts = append(opts,
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight),
	)
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("chromedp warmup: %w", err)
	}

	return &Browser{
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}, nil
}

// Context returns the browser context new tabs derive from.
func (b *Browser) Context() context.Context {
	return b.browserCtx
}

// Close tears down the browser and allocator contexts.
func (b *Browser) Close() {
	if b == nil {
		return
	}
	b.browserCancel()
	b.allocCancel()
}
