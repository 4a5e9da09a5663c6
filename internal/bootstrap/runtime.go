package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/target/crms-console/config"
	"github.com/target/crms-console/internal/gateway"
	"github.com/target/crms-console/internal/observability/statsd"
	"github.com/target/crms-console/internal/service"
	"github.com/target/crms-console/internal/session"
)

// RuntimeConfig contains everything Run needs to start the enabled services.
type RuntimeConfig struct {
	Config  *config.AppConfig
	Backend *SessionBackend
	Logger  *slog.Logger
}

// Run starts every service in the run plan and blocks until SIGINT/SIGTERM, ctx
// cancellation, or the first service failure. All services share one context, so a
// failing reaper also drains the HTTP server.
func Run(ctx context.Context, cfg *RuntimeConfig) error {
	if cfg == nil || cfg.Config == nil || cfg.Backend == nil {
		return errors.New("runtime config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	metricsClient := BuildMetrics(logger, cfg.Config.Observability.Metrics)
	defer func() {
		if err := metricsClient.Close(); err != nil {
			logger.Warn("close statsd client", "error", err)
		}
	}()
	var sink statsd.Sink
	if metricsClient != nil {
		sink = metricsClient
	}

	g, gctx := errgroup.WithContext(ctx)
	started := 0

	if cfg.Config.IsReaperEnabled() && cfg.Backend.Purger != nil {
		reaper, err := service.NewEntryReaper(service.EntryReaperOptions{
			Purger:   cfg.Backend.Purger,
			Backend:  string(cfg.Backend.Name),
			Interval: cfg.Config.Session.ReaperInterval,
			Logger:   logger,
			Metrics:  sink,
		})
		if err != nil {
			return fmt.Errorf("build entry reaper: %w", err)
		}
		g.Go(func() error {
			if runErr := reaper.Run(gctx); runErr != nil {
				return fmt.Errorf("entry reaper: %w", runErr)
			}
			return nil
		})
		started++
	}

	if cfg.Config.IsHTTPServerEnabled() {
		client, err := gateway.New(gateway.Config{
			BaseURL:   cfg.Config.API.BaseURL,
			Timeout:   cfg.Config.API.Timeout,
			Logger:    logger,
			Metrics:   sink,
			RateLimit: cfg.Config.API.RateLimit,
			Burst:     cfg.Config.API.Burst,
		})
		if err != nil {
			return fmt.Errorf("build gateway: %w", err)
		}
		server, err := NewHTTPServer(&HTTPServerConfig{
			Config:   cfg.Config,
			Sessions: session.NewProvider(cfg.Backend.Entries, cfg.Config.Session.DefaultTTL, logger),
			Gateway:  client,
			Logger:   logger,
		})
		if err != nil {
			return err
		}
		g.Go(func() error { return serveHTTP(logger, server) })
		g.Go(func() error {
			<-gctx.Done()
			// gctx is already done; drain on a context that keeps its values only.
			return ShutdownHTTPServer(ShutdownConfig{
				Context: context.WithoutCancel(gctx),
				Server:  server,
				Logger:  logger,
			})
		})
		started++
	}

	if started == 0 {
		return errors.New("no services to run")
	}

	err := g.Wait()
	if err != nil {
		logger.Error("service error", "error", err)
	}
	logger.Info("crms console stopped")
	return err
}
