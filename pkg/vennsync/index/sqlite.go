package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteCache is a Cache stored in a SQLite database file, so that separate
// processes handling edits of the same document share entries.
type SQLiteCache struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLiteCache opens or creates the cache database at path.
func OpenSQLiteCache(path string) (*SQLiteCache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	db.SetMaxOpenConns(1)

	c := &SQLiteCache{db: db, now: time.Now}
	if err := c.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}
	return c, nil
}

func (c *SQLiteCache) initSchema() error {
	_, err := c.db.Exec(`
	CREATE TABLE IF NOT EXISTS cache (
		doc TEXT NOT NULL,
		key TEXT NOT NULL,
		value BLOB NOT NULL,
		expires_at INTEGER NOT NULL,
		PRIMARY KEY (doc, key)
	);
	CREATE INDEX IF NOT EXISTS idx_cache_expires ON cache(expires_at);
	`)
	return err
}

// Close closes the database.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

// Get implements Cache.
func (c *SQLiteCache) Get(ctx context.Context, doc, key string) ([]byte, bool, error) {
	var value []byte
	var expiresAt int64
	err := c.db.QueryRowContext(ctx,
		`SELECT value, expires_at FROM cache WHERE doc = ? AND key = ?`, doc, key,
	).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if c.now().UnixMilli() >= expiresAt {
		if _, err := c.db.ExecContext(ctx, `DELETE FROM cache WHERE expires_at <= ?`, c.now().UnixMilli()); err != nil {
			return nil, false, err
		}
		return nil, false, nil
	}
	return value, true, nil
}

// Put implements Cache.
func (c *SQLiteCache) Put(ctx context.Context, doc, key string, value []byte, ttl time.Duration) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO cache (doc, key, value, expires_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(doc, key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		doc, key, value, c.now().Add(ttl).UnixMilli(),
	)
	return err
}

// Remove implements Cache.
func (c *SQLiteCache) Remove(ctx context.Context, doc, key string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM cache WHERE doc = ? AND key = ?`, doc, key)
	return err
}
