package config

import (
	"net"
	"net/url"
	"strconv"
	"strings"
)

// DBConfig contains PostgreSQL configuration for the postgres session backend.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"crms"`
	Password string `env:"PASSWORD" envDefault:"crms"`
	Name     string `env:"NAME"     envDefault:"crms_console"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart controls whether the session schema is applied during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// Sanitize applies guardrails to database configuration values.
func (c *DBConfig) Sanitize() {
	if c.Port <= 0 || c.Port > 65535 {
		c.Port = 5432
	}
	if c.SSLMode = strings.TrimSpace(c.SSLMode); c.SSLMode == "" {
		c.SSLMode = "disable"
	}
}

// DSN renders a postgres URL; credentials are escaped by url.URL.
func (c DBConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

// RedisConfig contains Redis configuration for the redis session backend.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}

// Sanitize applies guardrails to Redis configuration values.
func (c *RedisConfig) Sanitize() {
	c.URI = strings.TrimSpace(c.URI)
	if c.UseCluster && c.UseSentinel {
		c.UseSentinel = false
	}
}
