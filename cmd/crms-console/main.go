package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/target/crms-console/config"
	"github.com/target/crms-console/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger(slog.LevelInfo)
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	logger = bootstrap.InitLogger(cfg.Observability.SlogLevel())

	logStartupInfo(ctx, logger, &cfg)

	if err = bootstrap.ValidateServiceConfig(&cfg); err != nil {
		return err
	}

	backend, err := bootstrap.BuildSessionBackend(ctx, bootstrap.SessionBackendConfig{
		Session:  cfg.Session,
		Postgres: cfg.Postgres,
		Redis:    cfg.Redis,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := backend.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close session backend failed", "error", cerr)
		}
	}()

	return bootstrap.Run(ctx, &bootstrap.RuntimeConfig{
		Config:  &cfg,
		Backend: backend,
		Logger:  logger,
	})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting crms console",
		"api_base_url", cfg.API.BaseURL,
		"session_backend", cfg.Session.Backend,
		"dev", cfg.IsDev,
		"enabled_services", bootstrap.GetEnabledServices(cfg))
}
