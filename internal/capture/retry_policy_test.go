package capture

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExponentialRetryPolicyShouldRetry(t *testing.T) {
	policy := NewExponentialRetryPolicy(3)
	transient := errors.New("fetch failed")

	t.Run("NilErrorNeverRetries", func(t *testing.T) {
		assert.False(t, policy.ShouldRetry(nil, 1))
	})

	t.Run("RetriesUntilBudgetExhausted", func(t *testing.T) {
		assert.True(t, policy.ShouldRetry(transient, 1))
		assert.True(t, policy.ShouldRetry(transient, 2))
		assert.False(t, policy.ShouldRetry(transient, 3))
	})

	t.Run("CancellationIsNotRetryable", func(t *testing.T) {
		assert.False(t, policy.ShouldRetry(context.Canceled, 1))
		assert.False(t, policy.ShouldRetry(context.DeadlineExceeded, 1))
	})

	t.Run("WrappedCancellationIsNotRetryable", func(t *testing.T) {
		wrapped := errors.Join(errors.New("fetch aborted"), context.Canceled)
		assert.False(t, policy.ShouldRetry(wrapped, 1))
	})
}

func TestExponentialRetryPolicyDefaults(t *testing.T) {
	policy := NewExponentialRetryPolicy(0)
	transient := errors.New("fetch failed")
	assert.True(t, policy.ShouldRetry(transient, 2))
	assert.False(t, policy.ShouldRetry(transient, 3))
}

func TestExponentialRetryPolicyBackoff(t *testing.T) {
	policy := NewExponentialRetryPolicy(5)

	var prevCeiling time.Duration
	for attempt := 0; attempt < 4; attempt++ {
		delay := policy.Backoff(attempt)
		assert.Greater(t, delay, time.Duration(0), "attempt %d", attempt)
		assert.LessOrEqual(t, delay, 5*time.Second, "attempt %d", attempt)

		// The upper bound of the jitter window doubles each attempt
		// until the cap; the drawn value stays inside the window.
		ceiling := 250 * time.Millisecond << attempt
		assert.LessOrEqual(t, delay, ceiling)
		assert.Greater(t, ceiling, prevCeiling)
		prevCeiling = ceiling
	}
}
