package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/target/crms-console/config"
	"github.com/target/crms-console/internal/adapters/filestore"
	"github.com/target/crms-console/internal/adapters/memstore"
	"github.com/target/crms-console/internal/adapters/postgres"
	redisstore "github.com/target/crms-console/internal/adapters/redis"
	"github.com/target/crms-console/internal/ports"
)

// SessionBackend is the entry store selected by SESSION_BACKEND together with
// whatever connections it owns.
type SessionBackend struct {
	Name    config.SessionBackend
	Entries ports.EntryStore
	// Purger is nil when the backend expires entries natively.
	Purger ports.EntryPurger

	db    *sql.DB
	redis redis.UniversalClient
}

// Close releases the connections held by the backend.
func (b *SessionBackend) Close() error {
	if b == nil {
		return nil
	}
	var errs []error
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	if b.redis != nil {
		if err := b.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	return errors.Join(errs...)
}

// SessionBackendConfig contains dependencies for BuildSessionBackend.
type SessionBackendConfig struct {
	Session  config.SessionConfig
	Postgres config.DBConfig
	Redis    config.RedisConfig
	Logger   *slog.Logger
}

// BuildSessionBackend connects the configured entry store.
func BuildSessionBackend(ctx context.Context, cfg SessionBackendConfig) (*SessionBackend, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		client, err := ConnectRedis(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		var store *redisstore.EntryStore
		if cfg.Session.KeyPrefix != "" {
			store = redisstore.NewEntryStoreWithPrefix(client, cfg.Session.KeyPrefix)
		} else {
			store = redisstore.NewEntryStore(client)
		}
		return &SessionBackend{Name: cfg.Session.Backend, Entries: store, redis: client}, nil

	case config.SessionBackendPostgres:
		db, err := ConnectDB(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect db: %w", err)
		}
		if cfg.Postgres.RunMigrationsOnStart {
			if err = RunMigrations(ctx, db, logger); err != nil {
				return nil, errors.Join(err, db.Close())
			}
		} else {
			logger.InfoContext(ctx, "skipping database migrations on startup", "reason", "disabled via config")
		}
		store := postgres.NewEntryStore(postgres.EntryStoreOptions{DB: db, Logger: logger})
		return &SessionBackend{Name: cfg.Session.Backend, Entries: store, Purger: store, db: db}, nil

	case config.SessionBackendFile:
		dir := cfg.Session.FileDir
		if dir == "" {
			var err error
			if dir, err = filestore.DefaultDir(); err != nil {
				return nil, err
			}
		}
		store := filestore.New(dir)
		logger.InfoContext(ctx, "file session store", "dir", dir)
		return &SessionBackend{Name: cfg.Session.Backend, Entries: store, Purger: store}, nil

	case config.SessionBackendMemory:
		store := memstore.New()
		return &SessionBackend{Name: cfg.Session.Backend, Entries: store, Purger: store}, nil

	default:
		return nil, fmt.Errorf("unsupported session backend %q", cfg.Session.Backend)
	}
}
