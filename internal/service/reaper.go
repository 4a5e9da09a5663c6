package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"time"

	obserrors "github.com/target/crms-console/internal/observability/errors"
	"github.com/target/crms-console/internal/observability/metrics"
	"github.com/target/crms-console/internal/observability/statsd"
	"github.com/target/crms-console/internal/ports"
)

// DefaultReaperInterval is used when EntryReaperOptions.Interval is zero.
const DefaultReaperInterval = 10 * time.Minute

// EntryReaperOptions groups dependencies for EntryReaper.
type EntryReaperOptions struct {
	Purger   ports.EntryPurger // Required: backend without native expiry
	Backend  string            // Metric tag, e.g. "postgres"
	Interval time.Duration
	Logger   *slog.Logger
	Metrics  statsd.Sink
}

// EntryReaper periodically removes expired session entries from stores that do
// not expire keys on their own (postgres, file, memory).
type EntryReaper struct {
	purger   ports.EntryPurger
	backend  string
	interval time.Duration
	logger   *slog.Logger
	metrics  statsd.Sink
}

// NewEntryReaper constructs a new EntryReaper.
func NewEntryReaper(opts EntryReaperOptions) (*EntryReaper, error) {
	if opts.Purger == nil {
		return nil, errors.New("EntryPurger is required")
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultReaperInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	backend := opts.Backend
	if backend == "" {
		backend = "unknown"
	}
	return &EntryReaper{
		purger:   opts.Purger,
		backend:  backend,
		interval: interval,
		logger:   logger.With("component", "entry_reaper", "backend", backend),
		metrics:  opts.Metrics,
	}, nil
}

// Run sweeps once after a short jitter, then on every tick until ctx is cancelled.
// Returns nil on graceful shutdown.
func (r *EntryReaper) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting entry reaper", "interval", r.interval)

	r.waitWithJitter(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			r.logger.InfoContext(ctx, "entry reaper stopping", "reason", ctx.Err())
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

// Sweep runs a single purge and returns the number of entries removed.
func (r *EntryReaper) Sweep(ctx context.Context) (int64, error) {
	start := time.Now()
	removed, err := r.purger.PurgeExpired(ctx)
	metrics.EmitPurge(r.metrics, r.backend, removed, time.Since(start), suppressContextCancellation(err))
	if err != nil {
		return removed, fmt.Errorf("purge expired entries: %w", err)
	}
	return removed, nil
}

func (r *EntryReaper) sweep(ctx context.Context) {
	removed, err := r.Sweep(ctx)
	switch {
	case isContextCancellation(err):
		r.logger.DebugContext(ctx, "purge cancelled by context", "error", err)
	case err != nil:
		r.logger.ErrorContext(ctx, "purge failed", "error", err, "error_class", obserrors.Classify(err))
	case removed > 0:
		r.logger.InfoContext(ctx, "purged expired session entries", "count", removed)
	}
}

// waitWithJitter sleeps up to 10% of the interval so replicas do not sweep in lockstep.
func (r *EntryReaper) waitWithJitter(ctx context.Context) {
	maxJitter := int64(r.interval / 10)
	if maxJitter <= 0 {
		return
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		r.logger.WarnContext(ctx, "failed to generate jitter, skipping", "error", err)
		return
	}
	jitter := time.Duration(int64(binary.BigEndian.Uint64(buf[:]) % uint64(maxJitter))) // #nosec G115 - bounded by maxJitter

	timer := time.NewTimer(jitter)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

func isContextCancellation(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func suppressContextCancellation(err error) error {
	if isContextCancellation(err) {
		return nil
	}
	return err
}
