// Package postgres provides a PostgreSQL-backed EntryStore for deployments
// that already run a database and have no Redis.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/target/crms-console/internal/ports"
)

var (
	_ ports.EntryStore  = (*EntryStore)(nil)
	_ ports.EntryPurger = (*EntryStore)(nil)
)

// ErrSchemaMissing is returned when the entries table has not been migrated.
var ErrSchemaMissing = errors.New("console_session_entries table missing; run migrations")

// EntryStore keeps entries in console_session_entries. Expired rows read as absent
// and are removed by PurgeExpired.
type EntryStore struct {
	db     *sql.DB
	now    func() time.Time
	logger *slog.Logger
}

// EntryStoreOptions groups dependencies for EntryStore.
type EntryStoreOptions struct {
	DB     *sql.DB
	Logger *slog.Logger
	Now    func() time.Time
}

// NewEntryStore constructs an EntryStore.
func NewEntryStore(opts EntryStoreOptions) *EntryStore {
	s := &EntryStore{db: opts.DB, now: opts.Now, logger: opts.Logger}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("component", "postgres_entry_store")
	return s
}

func mapError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable {
		return fmt.Errorf("%s: %w", op, errors.Join(ErrSchemaMissing, err))
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *EntryStore) Get(ctx context.Context, scope string, keys ...string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	const q = `
		SELECT key, value FROM console_session_entries
		WHERE scope = $1 AND key = ANY($2) AND (expires_at IS NULL OR expires_at > $3)`
	rows, err := s.db.QueryContext(ctx, q, scope, keys, s.now().UTC())
	if err != nil {
		return nil, mapError("select entries", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.WarnContext(ctx, "close rows", "error", closeErr)
		}
	}()

	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("iterate entries", err)
	}
	return out, nil
}

// Put upserts every entry inside one transaction.
func (s *EntryStore) Put(ctx context.Context, scope string, entries map[string]string, ttl time.Duration) (err error) {
	var expiresAt sql.NullTime
	if ttl > 0 {
		expiresAt = sql.NullTime{Time: s.now().Add(ttl).UTC(), Valid: true}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
	}()

	const q = `
		INSERT INTO console_session_entries (scope, key, value, expires_at, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (scope, key) DO UPDATE
		SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at, updated_at = now()`
	for k, v := range entries {
		if _, err = tx.ExecContext(ctx, q, scope, k, v, expiresAt); err != nil {
			return mapError("upsert entry", err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit entries: %w", err)
	}
	return nil
}

func (s *EntryStore) Delete(ctx context.Context, scope string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	const q = `DELETE FROM console_session_entries WHERE scope = $1 AND key = ANY($2)`
	if _, err := s.db.ExecContext(ctx, q, scope, keys); err != nil {
		return mapError("delete entries", err)
	}
	return nil
}

// PurgeExpired deletes rows whose expiry has passed.
func (s *EntryStore) PurgeExpired(ctx context.Context) (int64, error) {
	const q = `DELETE FROM console_session_entries WHERE expires_at IS NOT NULL AND expires_at <= $1`
	res, err := s.db.ExecContext(ctx, q, s.now().UTC())
	if err != nil {
		return 0, mapError("purge entries", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
