package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopsight/backend/internal/domain"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS brands (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	url        TEXT NOT NULL UNIQUE,
	raw        TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SQLiteStore persists serialized extraction results keyed by storefront
// URL. It implements domain.BrandRepository.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (or creates) the sqlite database at path and ensures the schema
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Production-safe pragmas for a single-writer service
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save upserts the serialized brand context for a URL. The url column is
// unique, so re-extraction of the same storefront replaces the prior row.
func (s *SQLiteStore) Save(ctx context.Context, url string, brand *domain.BrandContext) error {
	if brand == nil {
		return domain.ErrInvalidRequest
	}

	raw, err := json.Marshal(brand)
	if err != nil {
		return fmt.Errorf("serialize brand context: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO brands (url, raw) VALUES (?, ?)
		ON CONFLICT(url) DO UPDATE SET raw = excluded.raw, updated_at = CURRENT_TIMESTAMP`,
		url, string(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// GetByURL loads the stored brand context for a URL, or ErrBrandNotFound
// when no row exists.
func (s *SQLiteStore) GetByURL(ctx context.Context, url string) (*domain.BrandContext, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT raw FROM brands WHERE url = ?`, url).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBrandNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	var brand domain.BrandContext
	if err := json.Unmarshal([]byte(raw), &brand); err != nil {
		return nil, fmt.Errorf("deserialize brand context: %w", err)
	}
	return &brand, nil
}
