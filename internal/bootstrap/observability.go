package bootstrap

import (
	"log/slog"

	"github.com/target/crms-console/config"
	"github.com/target/crms-console/internal/observability/statsd"
)

// BuildMetrics returns a StatsD client when metrics are enabled, or nil.
// A client that fails to initialise is logged and treated as disabled.
func BuildMetrics(logger *slog.Logger, cfg config.ObservabilityMetricsConfig) *statsd.Client {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.IsEnabled() {
		return nil
	}

	client, err := statsd.NewClient(statsd.Config{
		Address: cfg.StatsdAddress,
		Prefix:  cfg.Prefix,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return nil
	}
	return client
}
