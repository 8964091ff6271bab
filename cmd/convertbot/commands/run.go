package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rapidfileconvert/convertbot/internal/config"
	"github.com/rapidfileconvert/convertbot/internal/convert"
	"github.com/rapidfileconvert/convertbot/internal/dispatch"
	"github.com/rapidfileconvert/convertbot/internal/observability"
	"github.com/rapidfileconvert/convertbot/internal/ops"
	"github.com/rapidfileconvert/convertbot/internal/session"
	"github.com/rapidfileconvert/convertbot/internal/transport/telegram"
	"github.com/rapidfileconvert/convertbot/internal/usage"
	"github.com/rapidfileconvert/convertbot/internal/workspace"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the conversion bot daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func run() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if cfg.Transport.Token == "" {
		return errors.New("TELEGRAM_BOT_TOKEN missing: put it in a .env file or the environment")
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: cfg.Observability.ServiceName,
	})

	logger.Info().
		Int("workers", cfg.Convert.Workers).
		Int64("max_upload_mb", cfg.Upload.MaxSizeMB).
		Str("workspace_root", cfg.Workspace.Root).
		Msg("Starting convertbot")

	usageRepo, closeUsage, err := usage.Open(cfg.Usage.SQLitePath)
	if err != nil {
		return err
	}
	defer closeUsage()

	workspaces := workspace.NewManager(cfg.Workspace.Root, logger)
	sessions := session.NewStore()
	engine := convert.NewEngine(convert.Config{
		RenderDPI:     cfg.Convert.RenderDPI,
		JPEGQuality:   cfg.Convert.JPEGQuality,
		SofficeBinary: cfg.Convert.SofficeBinary,
		RenderTimeout: cfg.Convert.RenderTimeout,
	}, logger)

	client := telegram.NewClient(telegram.Config{
		Token:       cfg.Transport.Token,
		BaseURL:     cfg.Transport.APIBaseURL,
		HTTPTimeout: cfg.Transport.HTTPTimeout,
		InitRetries: cfg.Transport.InitRetries,
		InitBackoff: cfg.Transport.InitBackoff,
	}, logger)

	dispatcher := dispatch.NewDispatcher(dispatch.Config{
		MaxUploadBytes: cfg.MaxUploadBytes(),
		Workers:        cfg.Convert.Workers,
	}, sessions, workspaces, engine, usageRepo, client, logger)

	poller := telegram.NewPoller(client, dispatcher, workspaces,
		cfg.MaxUploadBytes(), cfg.Transport.PollTimeout, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Transport bootstrap is retried with backoff, then fatal.
	if err := client.WaitReady(ctx); err != nil {
		return err
	}

	dispatcher.Start(ctx)

	var opsSrv *http.Server
	if cfg.Ops.Enabled {
		opsSrv = &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Ops.Host, cfg.Ops.Port),
			Handler: ops.NewServer(usageRepo, logger).Router(),
		}
		go func() {
			logger.Info().Str("addr", opsSrv.Addr).Msg("Ops server listening")
			if err := opsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("Ops server error")
			}
		}()
	}

	pollErrors := make(chan error, 1)
	go func() {
		logger.Info().Msg("Polling for updates")
		pollErrors <- poller.Run(ctx)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-pollErrors:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("Poller stopped")
		}
	case sig := <-shutdown:
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	cancel()

	if opsSrv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Ops.GracefulShutdown)
		defer shutdownCancel()
		if err := opsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("Ops server shutdown failed")
		}
	}

	dispatcher.Wait()
	logger.Info().Msg("Stopped")
	return nil
}
