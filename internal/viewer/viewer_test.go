package viewer

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProbeScript(t *testing.T) {
	script := probeScript("#reader", 100)

	assert.Contains(t, script, `document.querySelector("#reader")`)
	assert.Contains(t, script, "width < 100 || height < 100")
	assert.Contains(t, script, "toDataURL('image/png')", "canvases are snapshotted losslessly")
	assert.Contains(t, script, "querySelectorAll('canvas, img')")
}

func TestProbeScriptEscapesSelector(t *testing.T) {
	script := probeScript(`div[data-role="viewer"]`, 80)
	assert.Contains(t, script, `document.querySelector("div[data-role=\"viewer\"]")`)
	assert.False(t, strings.Contains(script, `querySelector("div[data-role="viewer"]")`))
}

func TestConfigWithDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()

	assert.Equal(t, "#app", cfg.RootSelector)
	assert.Equal(t, 100, cfg.MinElementPx)
	assert.Equal(t, 20*time.Second, cfg.StepTimeout)
	assert.Equal(t, 3*time.Second, cfg.ClickTimeout)
	assert.Empty(t, cfg.NextSelector, "keyboard navigation is the default")
}
