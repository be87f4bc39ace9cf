// Package system provides real clock and pause implementations.
package system

import (
	"context"
	"time"
)

// Clock implements capture.Clock using time.Now.
type Clock struct{}

// New creates a new Clock.
func New() *Clock {
	return &Clock{}
}

// Now returns the current time.
func (Clock) Now() time.Time {
	return time.Now().UTC()
}

// Pauser implements capture.Pauser with a real timer that honors
// context cancellation.
type Pauser struct{}

// NewPauser creates a new Pauser.
func NewPauser() *Pauser {
	return &Pauser{}
}

// Pause blocks for delay or until ctx finishes, whichever comes first.
func (Pauser) Pause(ctx context.Context, delay time.Duration) {
	if delay <= 0 {
		return
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
