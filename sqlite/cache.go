// Package sqlite provides a SQLite-backed implementation of docsnare.Cache.
// It suits setups that want the cache in a single inspectable file rather
// than a badger directory.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"docsnare"
)

// Ensure Cache implements the interface at compile time.
var _ docsnare.Cache = (*Cache)(nil)

// Cache stores scrape results in a SQLite database. Expired entries are
// removed lazily on read.
type Cache struct {
	db   *sql.DB
	path string
}

// NewCache creates a Cache backed by the database at path.
// Use ":memory:" for an in-memory database.
func NewCache(path string) *Cache {
	return &Cache{path: path}
}

// Open opens the database connection and creates the schema if needed.
func (c *Cache) Open() error {
	conn, err := sql.Open("sqlite3", c.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Wait 5 seconds before failing on lock contention instead of
	// returning "database is locked" immediately.
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// WAL mode allows concurrent reads during writes. Not supported for
	// in-memory databases.
	if c.path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	c.db = conn

	if err := c.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Get returns the value for key. The second return value reports whether the
// key was present and unexpired. An expired entry is deleted and reported as
// a miss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	var expiresAt sql.NullInt64
	err := c.db.QueryRowContext(ctx,
		"SELECT value, expires_at FROM cache WHERE key = ?", key,
	).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, docsnare.Errorf(docsnare.EINTERNAL, "cache get: %v", err)
	}

	if expiresAt.Valid && expiresAt.Int64 <= time.Now().Unix() {
		if _, err := c.db.ExecContext(ctx, "DELETE FROM cache WHERE key = ?", key); err != nil {
			return nil, false, docsnare.Errorf(docsnare.EINTERNAL, "cache expiry: %v", err)
		}
		return nil, false, nil
	}

	return value, true, nil
}

// Set stores value under key, replacing any existing entry. A positive ttl
// bounds the entry's lifetime; zero or negative stores it without expiry.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expiresAt any
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl).Unix()
	}

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO cache (key, value, expires_at, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at,
			created_at = excluded.created_at
	`, key, value, expiresAt, time.Now().Unix())
	if err != nil {
		return docsnare.Errorf(docsnare.EINTERNAL, "cache set: %v", err)
	}
	return nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// createSchema creates the cache table if it doesn't exist.
func (c *Cache) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS cache (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			expires_at INTEGER,
			created_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_cache_expires_at ON cache(expires_at);
	`

	_, err := c.db.Exec(schema)
	return err
}
