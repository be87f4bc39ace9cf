package capture

import (
	"fmt"
	"time"
)

// Config captures every knob that influences one capture run. It is
// decoupled from Viper so the driver can be configured and tested
// independently of the configuration source.
type Config struct {
	// IssueLocator is the viewer entry point for the issue; its format is
	// opaque to the driver and passed through to the viewer.
	IssueLocator string
	// MinPageWidth is the rendered width below which candidates are
	// discarded as thumbnails.
	MinPageWidth int
	// MinPayloadBytes is the smallest decoded payload treated as rendered
	// content rather than a blank placeholder.
	MinPayloadBytes int
	// MaxRenderRetries bounds probe retries while a position shows only
	// placeholders; on exhaustion the position is skipped, not fatal.
	MaxRenderRetries int
	// MaxStallRetries bounds consecutive advance attempts that leave the
	// visible content unchanged before the run drains. It trades run
	// latency against the risk of ending an issue early.
	MaxStallRetries int
	// SettleDelay is the wait after opening or advancing before probing.
	SettleDelay time.Duration
	// RunBudget bounds the whole run; zero disables the bound.
	RunBudget time.Duration
}

func (c Config) withDefaults() Config {
	if c.MinPageWidth == 0 {
		c.MinPageWidth = 800
	}
	if c.MinPayloadBytes == 0 {
		c.MinPayloadBytes = 2048
	}
	if c.MaxRenderRetries == 0 {
		c.MaxRenderRetries = 5
	}
	if c.MaxStallRetries == 0 {
		c.MaxStallRetries = 3
	}
	if c.SettleDelay == 0 {
		c.SettleDelay = 2 * time.Second
	}
	return c
}

// Validate checks for obviously bad configuration combinations.
func (c Config) Validate() error {
	if c.IssueLocator == "" {
		return fmt.Errorf("issue locator must be set")
	}
	if c.MinPageWidth <= 0 {
		return fmt.Errorf("min page width must be > 0")
	}
	if c.MinPayloadBytes < 0 {
		return fmt.Errorf("min payload bytes must be >= 0")
	}
	if c.MaxRenderRetries < 0 {
		return fmt.Errorf("max render retries must be >= 0")
	}
	if c.MaxStallRetries <= 0 {
		return fmt.Errorf("max stall retries must be > 0")
	}
	if c.SettleDelay < 0 {
		return fmt.Errorf("settle delay must be >= 0")
	}
	if c.RunBudget < 0 {
		return fmt.Errorf("run budget must be >= 0")
	}
	return nil
}
