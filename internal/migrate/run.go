// Package migrate applies the console's embedded SQL schema.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const versionTable = `
	CREATE TABLE IF NOT EXISTS console_schema_migrations (
		version TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// Versions lists the embedded migration versions in apply order.
func Versions() ([]string, error) {
	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	versions := make([]string, 0, len(names))
	for _, n := range names {
		versions = append(versions, strings.TrimSuffix(path.Base(n), ".sql"))
	}
	sort.Strings(versions)
	return versions, nil
}

// Run applies every embedded migration not yet recorded. It is safe to call repeatedly.
func Run(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, versionTable); err != nil {
		return fmt.Errorf("create console_schema_migrations table: %w", err)
	}

	versions, err := Versions()
	if err != nil {
		return err
	}
	logger := slog.Default().With("component", "migrations")
	for _, v := range versions {
		if err := apply(ctx, db, logger, v); err != nil {
			return err
		}
	}
	return nil
}

func apply(ctx context.Context, db *sql.DB, logger *slog.Logger, version string) (err error) {
	var applied bool
	if err = db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM console_schema_migrations WHERE version = $1)`, version,
	).Scan(&applied); err != nil {
		return fmt.Errorf("check migration %s: %w", version, err)
	}
	if applied {
		return nil
	}

	script, err := migrationsFS.ReadFile("migrations/" + version + ".sql")
	if err != nil {
		return fmt.Errorf("read migration %s: %w", version, err)
	}

	logger.InfoContext(ctx, "applying migration", "version", version)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			logger.ErrorContext(ctx, "failed to rollback migration", "version", version, "err", rbErr)
		}
	}()

	if _, err = tx.ExecContext(ctx, string(script)); err != nil {
		return fmt.Errorf("exec migration %s: %w", version, err)
	}
	if _, err = tx.ExecContext(ctx, `INSERT INTO console_schema_migrations (version) VALUES ($1)`, version); err != nil {
		return fmt.Errorf("record migration %s: %w", version, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", version, err)
	}
	return nil
}
