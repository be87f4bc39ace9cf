// Package auth performs the portal login handshake. The capture core
// never re-implements login; it only requires that the browsing context
// it receives can fetch protected resources.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"go.uber.org/zap"
)

// ErrRejected indicates the portal did not accept the credentials.
var ErrRejected = errors.New("portal rejected credentials")

// Credentials holds the portal login identity.
type Credentials struct {
	Username string
	Password string
}

// Config locates the login flow inside the portal.
type Config struct {
	// PortalURL is the page carrying the login entry point.
	PortalURL string
	// LoginLinkSelector is clicked to reach the login form; tolerated if
	// absent since some portals land directly on the form.
	LoginLinkSelector string
	UsernameSelector  string
	PasswordSelector  string
	// SuccessSelector is an element that only renders once the session is
	// authenticated. Its absence after submit means rejection.
	SuccessSelector string
	Timeout         time.Duration
}

func (c Config) withDefaults() Config {
	if c.UsernameSelector == "" {
		c.UsernameSelector = "#username"
	}
	if c.PasswordSelector == "" {
		c.PasswordSelector = "#password"
	}
	if c.Timeout == 0 {
		c.Timeout = 45 * time.Second
	}
	return c
}

// Authenticator executes the form-fill login against a browser tab.
type Authenticator struct {
	cfg    Config
	logger *zap.Logger
}

// New builds an Authenticator.
func New(cfg Config, logger *zap.Logger) (*Authenticator, error) {
	cfg = cfg.withDefaults()
	if cfg.PortalURL == "" {
		return nil, fmt.Errorf("portal url must be set")
	}
	if cfg.SuccessSelector == "" {
		return nil, fmt.Errorf("success selector must be set")
	}
	return &Authenticator{cfg: cfg, logger: logger}, nil
}

// Login authenticates the given tab, leaving it bound to a valid
// session, or fails with ErrRejected.
func (a *Authenticator) Login(tabCtx context.Context, creds Credentials) error {
	if creds.Username == "" || creds.Password == "" {
		return fmt.Errorf("credentials must be set")
	}

	runCtx, cancel := context.WithTimeout(tabCtx, a.cfg.Timeout)
	defer cancel()

	a.logger.Info("opening portal", zap.String("url", a.cfg.PortalURL))
	if err := chromedp.Run(runCtx,
		chromedp.Navigate(a.cfg.PortalURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("open portal: %w", err)
	}

	if a.cfg.LoginLinkSelector != "" {
		linkCtx, linkCancel := context.WithTimeout(runCtx, 5*time.Second)
		err := chromedp.Run(linkCtx, chromedp.Click(a.cfg.LoginLinkSelector, chromedp.ByQuery))
		linkCancel()
		if err != nil {
			a.logger.Debug("login link not found, assuming login form is visible", zap.Error(err))
		}
	}

	a.logger.Info("submitting credentials", zap.String("user", creds.Username))
	if err := chromedp.Run(runCtx,
		chromedp.WaitVisible(a.cfg.UsernameSelector, chromedp.ByQuery),
		chromedp.SendKeys(a.cfg.UsernameSelector, creds.Username, chromedp.ByQuery),
		chromedp.WaitVisible(a.cfg.PasswordSelector, chromedp.ByQuery),
		chromedp.SendKeys(a.cfg.PasswordSelector, creds.Password+kb.Enter, chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("submit credentials: %w", err)
	}

	if err := chromedp.Run(runCtx,
		chromedp.WaitVisible(a.cfg.SuccessSelector, chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("%w: %v", ErrRejected, err)
	}

	a.logger.Info("login complete")
	return nil
}
