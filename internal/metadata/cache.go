// Package metadata caches extraction results from external video sources.
package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Cache keeps encoded extraction results in the extraction_cache table.
// An entry is live until its expires_at passes; expired rows stay on disk
// until Prune.
type Cache struct {
	db  *sql.DB
	now func() time.Time
}

func NewCache(db *sql.DB) *Cache {
	return &Cache{db: db, now: time.Now}
}

// Get returns the live value stored under key.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	var value []byte
	err := c.db.QueryRowContext(ctx,
		`SELECT value FROM extraction_cache WHERE key = ? AND expires_at > ?`,
		key, c.now().UTC(),
	).Scan(&value)
	if err != nil {
		return nil, false
	}
	if value == nil {
		value = []byte{}
	}
	return value, true
}

// Set stores value under key for ttl, replacing any earlier entry.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO extraction_cache (key, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, string(value), c.now().UTC().Add(ttl),
	)
	if err != nil {
		return fmt.Errorf("store cache entry %q: %w", key, err)
	}
	return nil
}

// Delete drops key if present.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM extraction_cache WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete cache entry %q: %w", key, err)
	}
	return nil
}

// Prune deletes expired rows and reports how many went.
func (c *Cache) Prune(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM extraction_cache WHERE expires_at <= ?`, c.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("prune cache: %w", err)
	}
	return res.RowsAffected()
}

// Stats counts live and expired rows.
type Stats struct {
	Live    int `json:"live"`
	Expired int `json:"expired"`
}

func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := c.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN expires_at > ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN expires_at <= ? THEN 1 ELSE 0 END), 0)
		FROM extraction_cache`,
		c.now().UTC(), c.now().UTC(),
	).Scan(&st.Live, &st.Expired)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Stats{}, fmt.Errorf("cache stats: %w", err)
	}
	return st, nil
}
