package capture

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunError(t *testing.T) {
	err := NewRunError(PhaseExtraction, ErrNoPages)

	assert.EqualError(t, err, "extraction: no pages captured")
	assert.True(t, errors.Is(err, ErrNoPages))
	assert.Equal(t, PhaseExtraction, PhaseOf(err))
}

func TestPhaseOf(t *testing.T) {
	t.Run("WrappedRunError", func(t *testing.T) {
		inner := NewRunError(PhaseAuth, errors.New("login rejected"))
		wrapped := fmt.Errorf("run aborted: %w", inner)
		assert.Equal(t, PhaseAuth, PhaseOf(wrapped))
	})

	t.Run("PlainError", func(t *testing.T) {
		assert.Equal(t, Phase(""), PhaseOf(errors.New("boom")))
	})

	t.Run("NilError", func(t *testing.T) {
		assert.Equal(t, Phase(""), PhaseOf(nil))
	})
}
