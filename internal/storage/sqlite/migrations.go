package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/GustavoCaso/spendwatch/internal/logger"
)

type migration struct {
	name string
	up   func(ctx context.Context, tx *sql.Tx) error
}

var migrations = []migration{
	{
		name: "Create collections table",
		up: func(ctx context.Context, tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS collections
				(
				name TEXT PRIMARY KEY,
				data TEXT NOT NULL,
				version INTEGER NOT NULL
				) STRICT;`)
			return err
		},
	},
	{
		name: "Add updated_at to collections",
		up: func(ctx context.Context, tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, `
				ALTER TABLE collections ADD COLUMN updated_at INTEGER NOT NULL DEFAULT 0;
			`)
			return err
		},
	},
}

func (b *Backend) createMigrationsTable(ctx context.Context) error {
	_, err := b.db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS schema_migrations (
					version INTEGER PRIMARY KEY,
					applied_at INTEGER NOT NULL
			)
	`)
	return err
}

// ApplyMigrations brings the schema up to date. Each migration runs in its own
// transaction together with its schema_migrations row.
func (b *Backend) ApplyMigrations(ctx context.Context, logger *logger.Logger) error {
	if err := b.createMigrationsTable(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	currentVersion := 0
	row := b.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for i, m := range migrations {
		migrationVersion := i + 1
		if migrationVersion <= currentVersion {
			continue
		}

		logger.Info("Applying migration",
			"version", migrationVersion,
			"name", m.name)

		tx, err := b.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w",
				migrationVersion, err)
		}

		if err = m.up(ctx, tx); err != nil {
			if rErr := tx.Rollback(); rErr != nil {
				return rErr
			}
			return fmt.Errorf("migration %d failed: %w", migrationVersion, err)
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
			migrationVersion, time.Now().Unix(),
		)
		if err != nil {
			if rErr := tx.Rollback(); rErr != nil {
				return rErr
			}
			return fmt.Errorf("failed to record migration %d: %w",
				migrationVersion, err)
		}

		if err = tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migrationVersion, err)
		}
	}

	return nil
}
