package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/GustavoCaso/spendwatch/internal/config"
	"github.com/GustavoCaso/spendwatch/internal/storage"
)

// Backend keeps every collection as one row of the collections table. The
// version column is bumped on each write and compared in the UPDATE so stale
// writers fail instead of overwriting.
type Backend struct {
	db *sql.DB
}

func New(dbConfig config.DBConfig) (*Backend, error) {
	db, err := sql.Open("sqlite3", dbConfig.Source)
	if err != nil {
		return nil, err
	}

	if dbConfig.MaxOpenConns > 0 {
		db.SetMaxOpenConns(dbConfig.MaxOpenConns)
	}

	if dbConfig.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(dbConfig.ConnMaxLifetime)
	}

	ctx := context.Background()

	if dbConfig.JournalMode != "" {
		_, err = db.ExecContext(ctx, fmt.Sprintf("PRAGMA journal_mode = %s", dbConfig.JournalMode))
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set journal_mode: %w", err)
		}
	}

	if dbConfig.BusyTimeout > 0 {
		_, err = db.ExecContext(ctx, fmt.Sprintf("PRAGMA busy_timeout = %d", dbConfig.BusyTimeout))
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set busy_timeout: %w", err)
		}
	}

	return &Backend{db: db}, nil
}

func (b *Backend) Close() error {
	return b.db.Close()
}

func (b *Backend) Read(ctx context.Context, c storage.Collection) ([]byte, storage.Version, error) {
	var data string
	var version int64

	row := b.db.QueryRowContext(ctx, "SELECT data, version FROM collections WHERE name = ?", string(c))
	err := row.Scan(&data, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}

	return []byte(data), formatVersion(version), nil
}

func (b *Backend) Write(ctx context.Context, c storage.Collection, data []byte, expected storage.Version) (storage.Version, error) {
	now := time.Now().Unix()

	if expected == "" {
		_, err := b.db.ExecContext(ctx,
			"INSERT INTO collections(name, data, version, updated_at) VALUES (?, ?, 1, ?)",
			string(c), string(data), now)
		if err != nil {
			var sqliteErr sqlite3.Error
			if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
				return "", b.conflict(ctx, c, expected)
			}
			return "", err
		}
		return formatVersion(1), nil
	}

	version, err := strconv.ParseInt(string(expected), 10, 64)
	if err != nil {
		return "", b.conflict(ctx, c, expected)
	}

	r, err := b.db.ExecContext(ctx,
		"UPDATE collections SET data = ?, version = version + 1, updated_at = ? WHERE name = ? AND version = ?",
		string(data), now, string(c), version)
	if err != nil {
		return "", err
	}

	affected, err := r.RowsAffected()
	if err != nil {
		return "", err
	}
	if affected == 0 {
		return "", b.conflict(ctx, c, expected)
	}

	return formatVersion(version + 1), nil
}

func (b *Backend) conflict(ctx context.Context, c storage.Collection, expected storage.Version) error {
	_, actual, err := b.Read(ctx, c)
	if err != nil {
		return err
	}
	return &storage.ConflictError{Collection: c, Expected: expected, Actual: actual}
}

// Clear deletes the named collections in a single transaction.
func (b *Backend) Clear(ctx context.Context, collections ...storage.Collection) error {
	if len(collections) == 0 {
		return nil
	}

	placeholders := make([]string, len(collections))
	args := make([]any, len(collections))
	for i, c := range collections {
		placeholders[i] = "?"
		args[i] = string(c)
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for clearing collections: %w", err)
	}

	query := fmt.Sprintf("DELETE FROM collections WHERE name IN (%s)", strings.Join(placeholders, ", "))
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		if rErr := tx.Rollback(); rErr != nil {
			return rErr
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit deletion: %w", err)
	}
	return nil
}

func formatVersion(v int64) storage.Version {
	return storage.Version(strconv.FormatInt(v, 10))
}
