package config

import (
	"strings"
	"time"
)

// SessionBackend selects where per-browser-context session entries live.
type SessionBackend string

const (
	SessionBackendMemory   SessionBackend = "memory"
	SessionBackendFile     SessionBackend = "file"
	SessionBackendRedis    SessionBackend = "redis"
	SessionBackendPostgres SessionBackend = "postgres"
)

// SessionConfig contains session store configuration.
type SessionConfig struct {
	Backend SessionBackend `env:"SESSION_BACKEND" envDefault:"memory"`

	// KeyPrefix namespaces redis keys.
	KeyPrefix string `env:"SESSION_KEY_PREFIX" envDefault:"crms:session:"`

	// DefaultTTL applies when the bearer token carries no readable expiry.
	DefaultTTL time.Duration `env:"SESSION_DEFAULT_TTL" envDefault:"8h"`

	// FileDir is the directory for the file backend. Empty uses the user config dir.
	FileDir string `env:"SESSION_FILE_DIR"`

	// ReaperInterval is how often expired entries are purged from backends without native expiry.
	ReaperInterval time.Duration `env:"SESSION_REAPER_INTERVAL" envDefault:"10m"`
}

// Sanitize applies guardrails to session configuration values.
func (c *SessionConfig) Sanitize() {
	c.Backend = SessionBackend(strings.ToLower(strings.TrimSpace(string(c.Backend))))
	switch c.Backend {
	case SessionBackendMemory, SessionBackendFile, SessionBackendRedis, SessionBackendPostgres:
	default:
		c.Backend = SessionBackendMemory
	}
	if c.DefaultTTL <= 0 {
		c.DefaultTTL = 8 * time.Hour
	}
	if c.ReaperInterval < time.Minute {
		c.ReaperInterval = time.Minute
	}
	c.FileDir = strings.TrimSpace(c.FileDir)
	c.KeyPrefix = strings.TrimSpace(c.KeyPrefix)
}

// NeedsReaper reports whether the backend lacks native key expiry. Redis is the only
// backend that drops expired entries on its own.
func (c *SessionConfig) NeedsReaper() bool {
	return c.Backend != SessionBackendRedis
}

