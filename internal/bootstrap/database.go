package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // "pgx" database/sql driver
	"github.com/redis/go-redis/v9"
	"github.com/target/crms-console/config"
	"github.com/target/crms-console/internal/migrate"
)

const connectTimeout = 5 * time.Second

// ConnectDB opens and pings the postgres session database.
func ConnectDB(ctx context.Context, cfg config.DBConfig, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err = db.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("ping database: %w", errors.Join(err, db.Close()))
	}

	logger.InfoContext(ctx, "database connected", "host", cfg.Host, "port", cfg.Port, "database", cfg.Name)
	return db, nil
}

// RunMigrations applies the session schema.
func RunMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	if err := migrate.Run(ctx, db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	versions, _ := migrate.Versions()
	logger.InfoContext(ctx, "session schema migrations completed", "versions", len(versions))
	return nil
}

type redisMode string

const (
	redisDirect   redisMode = "direct"
	redisSentinel redisMode = "sentinel"
	redisCluster  redisMode = "cluster"
)

// redisTarget is the resolved connection plan for a RedisConfig.
type redisTarget struct {
	mode redisMode
	opts *redis.UniversalOptions
}

// describe returns a credential-free address summary for logs.
func (t redisTarget) describe() string {
	if t.mode == redisSentinel {
		return "sentinel:" + t.opts.MasterName
	}
	return string(t.mode) + ":" + strings.Join(t.opts.Addrs, ",")
}

func resolveRedis(cfg config.RedisConfig) (redisTarget, error) {
	switch {
	case cfg.UseCluster:
		opts := &redis.UniversalOptions{Addrs: trimAll(cfg.ClusterNodes), Password: cfg.Password}
		if len(opts.Addrs) == 0 {
			if err := applyRedisURI(opts, cfg.URI); err != nil {
				return redisTarget{}, fmt.Errorf("parse redis cluster uri: %w", err)
			}
		}
		if len(opts.Addrs) == 0 {
			return redisTarget{}, errors.New("redis cluster requires at least one node")
		}
		return redisTarget{mode: redisCluster, opts: opts}, nil

	case cfg.UseSentinel:
		nodes := trimAll(cfg.SentinelNodes)
		if len(nodes) == 0 || strings.TrimSpace(cfg.SentinelMasterName) == "" {
			return redisTarget{}, errors.New("redis sentinel requires nodes and a master name")
		}
		return redisTarget{mode: redisSentinel, opts: &redis.UniversalOptions{
			Addrs:            nodes,
			MasterName:       cfg.SentinelMasterName,
			Password:         cfg.Password,
			SentinelPassword: cfg.SentinelPassword,
		}}, nil

	default:
		opts := &redis.UniversalOptions{Password: cfg.Password}
		if err := applyRedisURI(opts, cfg.URI); err != nil {
			return redisTarget{}, fmt.Errorf("parse redis uri: %w", err)
		}
		if len(opts.Addrs) == 0 {
			return redisTarget{}, errors.New("redis requires a URI")
		}
		return redisTarget{mode: redisDirect, opts: opts}, nil
	}
}

// applyRedisURI accepts either host:port or a redis:// / rediss:// URL.
// URL credentials win over the configured password.
func applyRedisURI(opts *redis.UniversalOptions, uri string) error {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return nil
	}
	if !strings.HasPrefix(uri, "redis://") && !strings.HasPrefix(uri, "rediss://") {
		opts.Addrs = []string{uri}
		return nil
	}
	parsed, err := redis.ParseURL(uri)
	if err != nil {
		return err
	}
	opts.Addrs = []string{parsed.Addr}
	opts.Username = parsed.Username
	if parsed.Password != "" {
		opts.Password = parsed.Password
	}
	opts.DB = parsed.DB
	opts.TLSConfig = parsed.TLSConfig
	return nil
}

// ConnectRedis builds a direct, sentinel or cluster client and pings it.
//
//nolint:ireturn // the concrete client depends on configuration
func ConnectRedis(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (redis.UniversalClient, error) {
	target, err := resolveRedis(cfg)
	if err != nil {
		return nil, err
	}

	var client redis.UniversalClient
	switch target.mode {
	case redisCluster:
		client = redis.NewClusterClient(target.opts.Cluster())
	case redisSentinel:
		client = redis.NewFailoverClient(target.opts.Failover())
	default:
		client = redis.NewClient(target.opts.Simple())
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err = client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", errors.Join(err, client.Close()))
	}

	logger.InfoContext(ctx, "redis connected", "target", target.describe())
	return client, nil
}

func trimAll(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
