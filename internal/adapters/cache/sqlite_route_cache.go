package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLite backed route cache that survives process restarts.
// Keys are expected to be consistent (already normalized) by the caller.
type SqliteRouteCache struct {
	DB *sql.DB
}

func NewSqliteRouteCache(db *sql.DB) *SqliteRouteCache {
	return &SqliteRouteCache{DB: db}
}

// InitRouteCacheSchema creates the route_cache table when absent.
func InitRouteCacheSchema(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS route_cache (
        key TEXT PRIMARY KEY,
        payload BLOB NOT NULL,
        inserted_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
    );
	`)
	if err != nil {
		return fmt.Errorf("init route cache schema: %w", err)
	}
	return nil
}

// Get returns the entry for key and whether it was present.
func (s *SqliteRouteCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s.DB == nil {
		return nil, false, errors.New("route cache: db is nil")
	}

	var payload []byte
	err := s.DB.QueryRowContext(ctx, `
	SELECT payload
    FROM route_cache
    WHERE key = ?;
	`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	return payload, true, nil
}

// Set stores value under key, overwriting any previous entry.
func (s *SqliteRouteCache) Set(ctx context.Context, key string, value []byte) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	if key == "" {
		return errors.New("insert route cache: empty key")
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO route_cache (key, payload)
    VALUES (?, ?);
	`, key, value)
	if err != nil {
		return fmt.Errorf("insert route cache key=%q: %w", key, err)
	}

	return nil
}

// Clear purges all entries unconditionally.
func (s *SqliteRouteCache) Clear(ctx context.Context) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM route_cache;`); err != nil {
		return fmt.Errorf("clear route cache: %w", err)
	}

	return nil
}
