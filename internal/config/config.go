// Package config loads and validates issuecap configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/issuecap/issuecap/internal/auth"
	"github.com/issuecap/issuecap/internal/browser"
	"github.com/issuecap/issuecap/internal/capture"
	"github.com/issuecap/issuecap/internal/viewer"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Browser BrowserConfig `mapstructure:"browser"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Viewer  ViewerConfig  `mapstructure:"viewer"`
	Capture CaptureConfig `mapstructure:"capture"`
	Fetch   FetchConfig   `mapstructure:"fetch"`
	Output  OutputConfig  `mapstructure:"output"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// BrowserConfig controls the headless Chrome process.
type BrowserConfig struct {
	Headless     bool   `mapstructure:"headless"`
	UserAgent    string `mapstructure:"user_agent"`
	WindowWidth  int    `mapstructure:"window_width"`
	WindowHeight int    `mapstructure:"window_height"`
	ExecPath     string `mapstructure:"exec_path"`
}

// AuthConfig locates the portal login flow.
type AuthConfig struct {
	PortalURL         string `mapstructure:"portal_url"`
	Username          string `mapstructure:"username"`
	Password          string `mapstructure:"password"`
	LoginLinkSelector string `mapstructure:"login_link_selector"`
	UsernameSelector  string `mapstructure:"username_selector"`
	PasswordSelector  string `mapstructure:"password_selector"`
	SuccessSelector   string `mapstructure:"success_selector"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds"`
}

// ViewerConfig locates the reading surface inside the portal.
type ViewerConfig struct {
	RootSelector       string   `mapstructure:"root_selector"`
	NextSelector       string   `mapstructure:"next_selector"`
	WarmupSelectors    []string `mapstructure:"warmup_selectors"`
	MinElementPx       int      `mapstructure:"min_element_px"`
	StepTimeoutSeconds int      `mapstructure:"step_timeout_seconds"`
}

// CaptureConfig governs the pagination driver.
type CaptureConfig struct {
	IssueLocator      string `mapstructure:"issue_locator"`
	MinPageWidth      int    `mapstructure:"min_page_width"`
	MinPayloadBytes   int    `mapstructure:"min_payload_bytes"`
	MaxRenderRetries  int    `mapstructure:"max_render_retries"`
	MaxStallRetries   int    `mapstructure:"max_stall_retries"`
	MaxExtractRetries int    `mapstructure:"max_extract_retries"`
	SettleDelayMs     int    `mapstructure:"settle_delay_ms"`
	RunBudgetSeconds  int    `mapstructure:"run_budget_seconds"`
}

// FetchConfig controls authenticated HTTP fetches of page resources.
type FetchConfig struct {
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
	QPS            float64 `mapstructure:"qps"`
}

// OutputConfig sets artifact locations.
type OutputConfig struct {
	PagesDir    string `mapstructure:"pages_dir"`
	DocumentDir string `mapstructure:"document_dir"`
}

// MetricsConfig controls the optional Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ISSUECAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.user_agent", "issuecap/1.0")
	v.SetDefault("browser.window_width", 1920)
	v.SetDefault("browser.window_height", 1080)
	v.SetDefault("auth.username_selector", "#username")
	v.SetDefault("auth.password_selector", "#password")
	v.SetDefault("auth.timeout_seconds", 45)
	v.SetDefault("viewer.root_selector", "#app")
	v.SetDefault("viewer.min_element_px", 100)
	v.SetDefault("viewer.step_timeout_seconds", 20)
	v.SetDefault("capture.min_page_width", 800)
	v.SetDefault("capture.min_payload_bytes", 2048)
	v.SetDefault("capture.max_render_retries", 5)
	v.SetDefault("capture.max_stall_retries", 3)
	v.SetDefault("capture.max_extract_retries", 3)
	v.SetDefault("capture.settle_delay_ms", 2000)
	v.SetDefault("capture.run_budget_seconds", 900)
	v.SetDefault("fetch.timeout_seconds", 30)
	v.SetDefault("fetch.qps", 2)
	v.SetDefault("output.pages_dir", "output_pages")
	v.SetDefault("output.document_dir", "output")
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("logging.development", true)
	v.SetDefault("logging.level", "")
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Auth.PortalURL == "" {
		return fmt.Errorf("auth.portal_url must be set")
	}
	if c.Auth.Username == "" || c.Auth.Password == "" {
		return fmt.Errorf("auth.username and auth.password must be set")
	}
	if c.Auth.SuccessSelector == "" {
		return fmt.Errorf("auth.success_selector must be set")
	}
	if c.Capture.IssueLocator == "" {
		return fmt.Errorf("capture.issue_locator must be set")
	}
	if c.Capture.MinPageWidth <= 0 {
		return fmt.Errorf("capture.min_page_width must be > 0")
	}
	if c.Capture.MaxExtractRetries <= 0 {
		return fmt.Errorf("capture.max_extract_retries must be > 0")
	}
	if c.Fetch.QPS < 0 {
		return fmt.Errorf("fetch.qps must be >= 0")
	}
	if c.Output.DocumentDir == "" {
		return fmt.Errorf("output.document_dir must be set")
	}
	if c.Metrics.Enabled && c.Metrics.Port <= 0 {
		return fmt.Errorf("metrics.port must be > 0 when metrics are enabled")
	}
	return nil
}

// BrowserSettings converts to the browser package's config.
func (c Config) BrowserSettings() browser.Config {
	return browser.Config{
		Headless:     c.Browser.Headless,
		UserAgent:    c.Browser.UserAgent,
		WindowWidth:  c.Browser.WindowWidth,
		WindowHeight: c.Browser.WindowHeight,
		ExecPath:     c.Browser.ExecPath,
	}
}

// AuthSettings converts to the auth package's config.
func (c Config) AuthSettings() auth.Config {
	return auth.Config{
		PortalURL:         c.Auth.PortalURL,
		LoginLinkSelector: c.Auth.LoginLinkSelector,
		UsernameSelector:  c.Auth.UsernameSelector,
		PasswordSelector:  c.Auth.PasswordSelector,
		SuccessSelector:   c.Auth.SuccessSelector,
		Timeout:           time.Duration(c.Auth.TimeoutSeconds) * time.Second,
	}
}

// ViewerSettings converts to the viewer package's config.
func (c Config) ViewerSettings() viewer.Config {
	return viewer.Config{
		RootSelector:    c.Viewer.RootSelector,
		NextSelector:    c.Viewer.NextSelector,
		WarmupSelectors: c.Viewer.WarmupSelectors,
		MinElementPx:    c.Viewer.MinElementPx,
		StepTimeout:     time.Duration(c.Viewer.StepTimeoutSeconds) * time.Second,
	}
}

// DriverSettings converts to the capture driver's config.
func (c Config) DriverSettings() capture.Config {
	return capture.Config{
		IssueLocator:     c.Capture.IssueLocator,
		MinPageWidth:     c.Capture.MinPageWidth,
		MinPayloadBytes:  c.Capture.MinPayloadBytes,
		MaxRenderRetries: c.Capture.MaxRenderRetries,
		MaxStallRetries:  c.Capture.MaxStallRetries,
		SettleDelay:      time.Duration(c.Capture.SettleDelayMs) * time.Millisecond,
		RunBudget:        time.Duration(c.Capture.RunBudgetSeconds) * time.Second,
	}
}

// FetchTimeout returns the authenticated fetch timeout as a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}
