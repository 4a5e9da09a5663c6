package bootstrap

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/target/crms-console/config"
)

// InitLogger installs a JSON slog logger on stdout as the process default.
func InitLogger(level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// LoadConfig overlays the given dotenv files (default ".env") onto the process
// environment, parses AppConfig and sanitizes it. Missing dotenv files are ignored.
func LoadConfig(dotenvFiles ...string) (config.AppConfig, error) {
	var cfg config.AppConfig
	if err := godotenv.Load(dotenvFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load .env file: %w", err)
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	cfg.Sanitize()
	return cfg, nil
}

// ValidateServiceConfig fails when SERVICES is malformed or resolves to nothing runnable,
// such as SERVICES=reaper on the redis backend.
func ValidateServiceConfig(cfg *config.AppConfig) error {
	if cfg == nil {
		return errors.New("service config is required")
	}
	plan, err := cfg.RunPlan()
	if err != nil {
		return fmt.Errorf("invalid service configuration: %w", err)
	}
	if len(plan) == 0 {
		return fmt.Errorf("no runnable services for session backend %q", cfg.Session.Backend)
	}
	return nil
}

// GetEnabledServices returns the names of the services that will run, for startup logs.
func GetEnabledServices(cfg *config.AppConfig) []string {
	names := []string{}
	if cfg == nil {
		return names
	}
	plan, err := cfg.RunPlan()
	if err != nil {
		return names
	}
	for _, m := range plan {
		names = append(names, string(m))
	}
	return names
}
