package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/skirmish/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/skirmish/internal/services/combat/storage"
	"github.com/louisbranch/skirmish/internal/services/combat/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func toNullMillis(value *time.Time) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toMillis(*value), Valid: true}
}

func fromNullMillis(value sql.NullInt64) *time.Time {
	if !value.Valid {
		return nil
	}
	t := fromMillis(value.Int64)
	return &t
}

// Store is the SQLite implementation of storage.Store.
type Store struct {
	sqlDB *sql.DB
}

var _ storage.Store = (*Store)(nil)

// Open opens the combat database at path and applies migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrations.FS, "combat"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the database. It is nil-safe.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

// PutMatch inserts or replaces a match header.
func (s *Store) PutMatch(ctx context.Context, match storage.MatchRecord) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(match.ID) == "" {
		return fmt.Errorf("match id is required")
	}
	ranked := 0
	if match.Ranked {
		ranked = 1
	}
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO matches (id, ranked, seed, width, height, opened_at, closed_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    ranked = excluded.ranked,
    seed = excluded.seed,
    width = excluded.width,
    height = excluded.height,
    opened_at = excluded.opened_at,
    closed_at = excluded.closed_at`,
		match.ID, ranked, match.Seed, match.Width, match.Height,
		toMillis(match.OpenedAt), toNullMillis(match.ClosedAt))
	if err != nil {
		return fmt.Errorf("put match: %w", err)
	}
	return nil
}

// GetMatch loads a match header.
func (s *Store) GetMatch(ctx context.Context, id string) (storage.MatchRecord, error) {
	if err := s.ready(ctx); err != nil {
		return storage.MatchRecord{}, err
	}
	var (
		record   storage.MatchRecord
		ranked   int
		openedAt int64
		closedAt sql.NullInt64
	)
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT id, ranked, seed, width, height, opened_at, closed_at
FROM matches WHERE id = ?`, id).Scan(
		&record.ID, &ranked, &record.Seed, &record.Width, &record.Height, &openedAt, &closedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.MatchRecord{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.MatchRecord{}, fmt.Errorf("get match: %w", err)
	}
	record.Ranked = ranked != 0
	record.OpenedAt = fromMillis(openedAt)
	record.ClosedAt = fromNullMillis(closedAt)
	return record, nil
}

// CloseMatch stamps the match as closed.
func (s *Store) CloseMatch(ctx context.Context, id string, at time.Time) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx, `UPDATE matches SET closed_at = ? WHERE id = ?`, toMillis(at), id)
	if err != nil {
		return fmt.Errorf("close match: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
