// Package cmd defines and implements the CLI commands for the issuecap
// executable.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/issuecap/issuecap/internal/capture"
)

var cfgFile string

// Exit codes, one per failing phase, for operator diagnosis.
const (
	exitOK         = 0
	exitUsage      = 1
	exitAuth       = 2
	exitNavigation = 3
	exitExtraction = 4
	exitAssembly   = 5
)

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issuecap",
		Short: "Captures a paginated newspaper issue into a single PDF.",
		Long: `issuecap logs into a newspaper portal, walks the canvas-rendered
viewer page by page, captures every rendered page at full resolution,
and assembles the unique pages into one ordered PDF document.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	cmd.AddCommand(newCaptureCmd())

	return cmd
}

// Execute is the main entry point. Failures exit with a code identifying
// the phase that failed.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var runErr *capture.RunError
	if !errors.As(err, &runErr) {
		return exitUsage
	}
	switch runErr.Phase {
	case capture.PhaseAuth:
		return exitAuth
	case capture.PhaseNavigation:
		return exitNavigation
	case capture.PhaseExtraction:
		return exitExtraction
	case capture.PhaseAssembly:
		return exitAssembly
	default:
		return exitUsage
	}
}
