package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/issuecap/issuecap/internal/capture"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"AuthFailure", capture.NewRunError(capture.PhaseAuth, errors.New("rejected")), exitAuth},
		{"NavigationFailure", capture.NewRunError(capture.PhaseNavigation, errors.New("timeout")), exitNavigation},
		{"ExtractionFailure", capture.NewRunError(capture.PhaseExtraction, capture.ErrNoPages), exitExtraction},
		{"AssemblyFailure", capture.NewRunError(capture.PhaseAssembly, errors.New("embed failed")), exitAssembly},
		{"WrappedRunError", fmt.Errorf("capture: %w", capture.NewRunError(capture.PhaseAuth, errors.New("rejected"))), exitAuth},
		{"PlainError", errors.New("bad flag"), exitUsage},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, exitCode(tc.err))
		})
	}
}

func TestRootCommandShape(t *testing.T) {
	root := newRootCmd()
	assert.Equal(t, "issuecap", root.Use)

	names := make([]string, 0)
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "capture")
}
