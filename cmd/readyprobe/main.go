package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hazz-dev/readyprobe/internal/alert"
	"github.com/hazz-dev/readyprobe/internal/check"
	"github.com/hazz-dev/readyprobe/internal/config"
	"github.com/hazz-dev/readyprobe/internal/launch"
	"github.com/hazz-dev/readyprobe/internal/server"
	"github.com/hazz-dev/readyprobe/internal/storage"
	"github.com/hazz-dev/readyprobe/internal/version"
)

const defaultConfigPath = "readyprobe.yml"

var (
	cfgFile       string
	watchInterval time.Duration
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "readyprobe",
		Short:        "Deployment readiness verifier and launcher",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", defaultConfigPath, "verification profile path")

	root.AddCommand(versionCmd())
	root.AddCommand(verifyCmd())
	root.AddCommand(launchCmd())
	root.AddCommand(statusCmd())
	root.AddCommand(serveCmd())

	return root
}

// loadConfig resolves the profile path (env override wins over the default
// flag value), loads it, and folds in the remaining overrides.
func loadConfig() (*config.Config, error) {
	overrides, err := config.ParseOverrides()
	if err != nil {
		return nil, err
	}

	path := cfgFile
	if overrides.ConfigPath != "" && path == defaultConfigPath {
		path = overrides.ConfigPath
	}

	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	cfg.Apply(overrides)
	return cfg, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("readyprobe %s (commit %s, built %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}

func verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Run all readiness checks and print the report",
		RunE:  runVerify,
	}
}

func runVerify(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	rep, err := executeVerify(cmd, cfg)
	storeRun(cfg, rep)
	if err != nil {
		return err
	}
	if !rep.AllPassed() {
		return fmt.Errorf("%d of %d checks failed", rep.Total()-rep.Passed(), rep.Total())
	}
	return nil
}

func launchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "launch",
		Short: "Verify readiness, then pick a mode and start the application",
		RunE:  runLaunch,
	}
}

func runLaunch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return executeLaunch(cmd, cfg, &launch.OSExecutor{})
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the latest stored verification report",
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	return executeStatus(cmd, db)
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the readiness report over HTTP, optionally re-verifying on an interval",
		RunE:  runServe,
	}
	cmd.Flags().DurationVar(&watchInterval, "watch", 0, "re-run verification on this interval (0 verifies once)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger := slog.Default()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	var alerter *alert.Alerter
	if cfg.Alerts.Webhook.URL != "" {
		alerter = alert.New(cfg.Alerts.Webhook.URL, cfg.Alerts.Webhook.Cooldown.Duration, logger)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go watchLoop(ctx, cfg, db, alerter, watchInterval, logger)

	apiServer := server.New(db, cfg.App.Name, logger)
	httpServer := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: apiServer.Router(),
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "address", cfg.Server.Address)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("HTTP server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}

// watchLoop re-runs the full verification on the given interval, storing each
// run and alerting on readiness transitions. With interval 0 it verifies once.
func watchLoop(ctx context.Context, cfg *config.Config, db *storage.DB, alerter *alert.Alerter, interval time.Duration, logger *slog.Logger) {
	var prevReady *bool

	runOnce := func() {
		pipeline := check.NewPipeline(cfg, nil, nil)
		rep, err := pipeline.Run(ctx, nil)
		if err != nil {
			logger.Error("verification aborted", "error", err)
		}
		logger.Info("verification run",
			"passed", rep.Passed(),
			"total", rep.Total(),
			"ready", rep.AllPassed(),
		)
		if _, err := db.InsertRun(ctx, rep); err != nil {
			logger.Error("storing run", "error", err)
		}
		if alerter != nil {
			alerter.Notify(cfg.App.Name, rep, prevReady)
		}
		ready := rep.AllPassed()
		prevReady = &ready
	}

	runOnce()
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}

// storeRun persists a verification run; history is best-effort and never
// blocks the verdict.
func storeRun(cfg *config.Config, rep *check.Report) {
	if rep == nil || rep.Total() == 0 {
		return
	}
	db, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		slog.Warn("opening history database", "error", err)
		return
	}
	defer db.Close()
	if _, err := db.InsertRun(context.Background(), rep); err != nil {
		slog.Warn("storing verification run", "error", err)
	}
}
