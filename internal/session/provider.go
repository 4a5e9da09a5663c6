package session

import (
	"log/slog"
	"time"

	"github.com/target/crms-console/internal/ports"
)

// Provider hands out Stores that share one EntryStore, one per browser context.
type Provider struct {
	entries    ports.EntryStore
	defaultTTL time.Duration
	logger     *slog.Logger
}

// NewProvider constructs a Provider.
func NewProvider(entries ports.EntryStore, defaultTTL time.Duration, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{entries: entries, defaultTTL: defaultTTL, logger: logger.With("component", "session")}
}

// For returns the Store bound to scope.
func (p *Provider) For(scope string) *Store {
	return New(Options{
		Entries:    p.entries,
		Scope:      scope,
		DefaultTTL: p.defaultTTL,
		Logger:     p.logger,
	})
}
