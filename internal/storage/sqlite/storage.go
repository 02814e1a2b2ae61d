package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/mcoot/psconsole/internal/dependencies/clock"
	"github.com/mcoot/psconsole/internal/model"
	"github.com/mcoot/psconsole/internal/storage"
	"github.com/mcoot/psconsole/internal/storage/sqlite/migrations"
)

// Storage is a SQLite-backed implementation of the storage interface
type Storage struct {
	db    *sql.DB
	clock clock.Clock
}

// Open opens (or creates) the database at path and applies migrations.
// Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string, clk clock.Clock) (*Storage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	// SQLite allows a single writer; an in-memory database also exists per connection
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return &Storage{db: db, clock: clk}, nil
}

// RunMigrations applies the embedded goose migrations
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) GetItem(ctx context.Context, origin model.Origin, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM items WHERE origin = ? AND key = ?`, string(origin), key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item[%s/%s]: %w", origin, key, err)
	}
	return value, nil
}

func (s *Storage) SetItem(ctx context.Context, origin model.Origin, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO items (origin, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(origin, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, string(origin), key, value, s.clock.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to set item[%s/%s]: %w", origin, key, err)
	}
	return nil
}

func (s *Storage) RemoveItem(ctx context.Context, origin model.Origin, key string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM items WHERE origin = ? AND key = ?`, string(origin), key)
	if err != nil {
		return fmt.Errorf("failed to delete item[%s/%s]: %w", origin, key, err)
	}
	return nil
}

func (s *Storage) Keys(ctx context.Context, origin model.Origin) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key FROM items WHERE origin = ? ORDER BY key`, string(origin))
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate item rows: %w", err)
	}

	return keys, nil
}
