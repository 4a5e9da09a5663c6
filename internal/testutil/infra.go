package testutil

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"net"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	// pgx registers the "pgx" database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"github.com/target/crms-console/internal/migrate"
)

// InfraConfig locates the optional Postgres and Redis instances used by adapter tests.
// The defaults match the docker-compose test profile; CI overrides them.
type InfraConfig struct {
	DBHost     string `env:"TEST_DB_HOST"     envDefault:"localhost"`
	DBPort     string `env:"TEST_DB_PORT"     envDefault:"55432"`
	DBUser     string `env:"TEST_DB_USER"     envDefault:"crms"`
	DBPassword string `env:"TEST_DB_PASSWORD" envDefault:"crms"`
	DBName     string `env:"TEST_DB_NAME"     envDefault:"crms_console"`
	DBSSLMode  string `env:"DB_SSL_MODE"      envDefault:"disable"`

	RedisAddr string `env:"TEST_REDIS_ADDR" envDefault:"localhost:56379"`
	RedisDB   int    `env:"TEST_REDIS_DB"   envDefault:"1"`

	// Require turns a missing dependency into a failure instead of a skip.
	Require bool `env:"TEST_REQUIRE_INFRA"`
}

// LoadInfraConfig reads InfraConfig from the environment.
func LoadInfraConfig(t testing.TB) InfraConfig {
	t.Helper()
	var cfg InfraConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse test infra env: %v", err)
	}
	return cfg
}

// DSN builds a postgres URL; searchPath is optional.
func (c InfraConfig) DSN(searchPath string) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUser, c.DBPassword),
		Host:   net.JoinHostPort(c.DBHost, c.DBPort),
		Path:   "/" + c.DBName,
	}
	q := url.Values{}
	q.Set("sslmode", c.DBSSLMode)
	if searchPath != "" {
		q.Set("search_path", searchPath+",public")
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func (c InfraConfig) unavailable(t testing.TB, what string, err error) {
	t.Helper()
	if c.Require {
		t.Fatalf("%s not available: %v", what, err)
	}
	t.Skipf("%s not available: %v", what, err)
}

// WithAutoDB runs fn against a migrated, throwaway schema that is dropped on cleanup.
func WithAutoDB(t testing.TB, fn func(*sql.DB)) {
	t.Helper()
	fn(SetupSchemaDB(t))
}

// SetupSchemaDB creates a unique schema, points search_path at it and applies migrations.
func SetupSchemaDB(t testing.TB) *sql.DB {
	t.Helper()
	cfg := LoadInfraConfig(t)

	admin := openPinged(t, cfg, "")
	schema := "t_" + randomHex(4)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := admin.ExecContext(ctx, "CREATE SCHEMA "+schema); err != nil {
		_ = admin.Close()
		t.Fatalf("create schema %s: %v", schema, err)
	}

	db := openPinged(t, cfg, schema)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = db.Close()
		if _, err := admin.ExecContext(ctx, "DROP SCHEMA IF EXISTS "+schema+" CASCADE"); err != nil {
			t.Logf("drop schema %s: %v", schema, err)
		}
		_ = admin.Close()
	})

	if err := migrate.Run(ctx, db); err != nil {
		t.Fatalf("migrate schema %s: %v", schema, err)
	}
	return db
}

func openPinged(t testing.TB, cfg InfraConfig, schema string) *sql.DB {
	t.Helper()
	db, err := sql.Open("pgx", cfg.DSN(schema))
	if err != nil {
		cfg.unavailable(t, "postgres", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		cfg.unavailable(t, "postgres", err)
	}
	return db
}

// SetupTestRedis returns a client on the configured test DB, flushed before use.
func SetupTestRedis(t testing.TB) *redis.Client {
	t.Helper()
	cfg := LoadInfraConfig(t)

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		cfg.unavailable(t, "redis at "+cfg.RedisAddr, err)
	}
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("flush redis db %d: %v", cfg.RedisDB, err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 16)[:2*n]
	}
	return hex.EncodeToString(b)
}
