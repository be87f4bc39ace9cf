package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/issuecap/issuecap/internal/assemble"
	"github.com/issuecap/issuecap/internal/auth"
	"github.com/issuecap/issuecap/internal/browser"
	"github.com/issuecap/issuecap/internal/capture"
	"github.com/issuecap/issuecap/internal/clock/system"
	"github.com/issuecap/issuecap/internal/config"
	"github.com/issuecap/issuecap/internal/hash/sha256"
	"github.com/issuecap/issuecap/internal/id/uuid"
	"github.com/issuecap/issuecap/internal/logging"
	"github.com/issuecap/issuecap/internal/storage/local"
	"github.com/issuecap/issuecap/internal/viewer"
)

// newCaptureCmd creates and configures the 'capture' subcommand, which
// runs one full issue capture: login, page discovery loop, assembly.
func newCaptureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "capture",
		Short: "Captures the configured issue and assembles the PDF",
		Long: `Logs into the portal, opens the configured issue in the viewer,
captures every unique rendered page, and writes <YYYYMMDD>.pdf under the
configured output directory.`,
		RunE: runCaptureCommand,
	}
}

func runCaptureCommand(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Development, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Enabled {
		startMetricsServer(cfg.Metrics.Port, logger)
	}

	runID, err := uuid.NewGenerator().NewID()
	if err != nil {
		return fmt.Errorf("generate run id: %w", err)
	}
	logger.Info("starting capture run", zap.String("run_id", runID))

	b, err := browser.New(ctx, cfg.BrowserSettings())
	if err != nil {
		return capture.NewRunError(capture.PhaseNavigation, fmt.Errorf("launch browser: %w", err))
	}
	defer b.Close()

	view := viewer.New(b.Context(), cfg.ViewerSettings(), logger)
	defer view.Close()

	authenticator, err := auth.New(cfg.AuthSettings(), logger)
	if err != nil {
		return fmt.Errorf("init authenticator: %w", err)
	}
	creds := auth.Credentials{Username: cfg.Auth.Username, Password: cfg.Auth.Password}
	if err := authenticator.Login(view.TabContext(), creds); err != nil {
		return capture.NewRunError(capture.PhaseAuth, err)
	}

	// The extractor reuses the tab's authenticated identity for any page
	// resources that are not inlined as data URLs.
	cookies, err := view.Cookies(ctx)
	if err != nil {
		return capture.NewRunError(capture.PhaseAuth, fmt.Errorf("export session cookies: %w", err))
	}
	client := capture.NewAuthenticatedClient(cfg.Browser.UserAgent, cfg.FetchTimeout(), cookies)
	extractor := capture.NewImageExtractor(client, cfg.Fetch.QPS, sha256.New(), logger)

	var store capture.PageStore
	if cfg.Output.PagesDir != "" {
		ps, err := local.New(local.Config{BaseDir: cfg.Output.PagesDir})
		if err != nil {
			return fmt.Errorf("init page store: %w", err)
		}
		store = ps
	}

	driver, err := capture.NewDriver(
		cfg.DriverSettings(),
		view,
		extractor,
		store,
		capture.NewExponentialRetryPolicy(cfg.Capture.MaxExtractRetries),
		system.NewPauser(),
		logger,
	)
	if err != nil {
		return fmt.Errorf("init driver: %w", err)
	}

	result, err := driver.Run(ctx, runID)
	if err != nil {
		return err
	}
	if result.Incomplete {
		logger.Warn("navigation stalled before end of issue; document may be missing trailing pages",
			zap.Int("pages", len(result.Pages)))
	}

	dest := filepath.Join(cfg.Output.DocumentDir, system.New().Now().Format("20060102")+".pdf")
	// Assembly runs on a fresh context so a stop signal that ended the
	// capture loop does not also discard the pages already captured.
	if err := assemble.NewPDFAssembler(logger).Assemble(context.Background(), result.Pages, dest); err != nil {
		return capture.NewRunError(capture.PhaseAssembly, err)
	}

	logger.Info("issue captured",
		zap.String("run_id", runID),
		zap.String("document", dest),
		zap.Int("pages", len(result.Pages)),
		zap.Int("skipped_positions", result.SkippedPositions))
	return nil
}

func startMetricsServer(port int, logger *zap.Logger) {
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		addr := fmt.Sprintf(":%d", port)
		logger.Info("starting metrics server", zap.String("addr", addr))
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()
}
