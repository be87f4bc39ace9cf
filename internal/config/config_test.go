package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const minimalConfig = `
auth:
  portal_url: https://portal.example/login
  username: reader
  password: secret
  success_selector: "#logout"
capture:
  issue_locator: https://portal.example/issue/today
`

func TestLoadMinimal(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "https://portal.example/login", cfg.Auth.PortalURL)
	assert.Equal(t, "https://portal.example/issue/today", cfg.Capture.IssueLocator)

	// Everything else comes from defaults.
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 1920, cfg.Browser.WindowWidth)
	assert.Equal(t, "#username", cfg.Auth.UsernameSelector)
	assert.Equal(t, "#app", cfg.Viewer.RootSelector)
	assert.Equal(t, 800, cfg.Capture.MinPageWidth)
	assert.Equal(t, 3, cfg.Capture.MaxExtractRetries)
	assert.Equal(t, 2.0, cfg.Fetch.QPS)
	assert.Equal(t, "output", cfg.Output.DocumentDir)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
auth:
  portal_url: https://portal.example/login
  username: reader
  password: secret
  success_selector: "#logout"
browser:
  headless: false
  window_width: 2560
viewer:
  next_selector: ".btn-next"
  warmup_selectors: [".dismiss-banner"]
capture:
  issue_locator: https://portal.example/issue/today
  min_page_width: 1024
  settle_delay_ms: 500
  run_budget_seconds: 120
`))
	require.NoError(t, err)

	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 2560, cfg.Browser.WindowWidth)
	assert.Equal(t, ".btn-next", cfg.Viewer.NextSelector)
	assert.Equal(t, []string{".dismiss-banner"}, cfg.Viewer.WarmupSelectors)

	driver := cfg.DriverSettings()
	assert.Equal(t, 1024, driver.MinPageWidth)
	assert.Equal(t, 500*time.Millisecond, driver.SettleDelay)
	assert.Equal(t, 2*time.Minute, driver.RunBudget)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "MissingPortalURL",
			body: `
auth:
  username: reader
  password: secret
  success_selector: "#logout"
capture:
  issue_locator: https://portal.example/issue/today
`,
			want: "auth.portal_url",
		},
		{
			name: "MissingCredentials",
			body: `
auth:
  portal_url: https://portal.example/login
  success_selector: "#logout"
capture:
  issue_locator: https://portal.example/issue/today
`,
			want: "auth.username",
		},
		{
			name: "MissingIssueLocator",
			body: `
auth:
  portal_url: https://portal.example/login
  username: reader
  password: secret
  success_selector: "#logout"
`,
			want: "capture.issue_locator",
		},
		{
			name: "BadExtractRetries",
			body: `
auth:
  portal_url: https://portal.example/login
  username: reader
  password: secret
  success_selector: "#logout"
capture:
  issue_locator: https://portal.example/issue/today
  max_extract_retries: -2
`,
			want: "max_extract_retries",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestSettingsConversions(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	authCfg := cfg.AuthSettings()
	assert.Equal(t, "https://portal.example/login", authCfg.PortalURL)
	assert.Equal(t, 45*time.Second, authCfg.Timeout)

	viewerCfg := cfg.ViewerSettings()
	assert.Equal(t, "#app", viewerCfg.RootSelector)
	assert.Equal(t, 20*time.Second, viewerCfg.StepTimeout)

	assert.Equal(t, 30*time.Second, cfg.FetchTimeout())

	browserCfg := cfg.BrowserSettings()
	assert.Equal(t, "issuecap/1.0", browserCfg.UserAgent)
	assert.Equal(t, 1080, browserCfg.WindowHeight)
}
