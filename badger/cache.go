// Package badger provides a BadgerDB implementation of docsnare.Cache.
// Badger handles TTL natively, so entries expire without any sweeping on our
// side. This is the default cache backend.
package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"docsnare"
)

// Ensure Cache implements the interface at compile time.
var _ docsnare.Cache = (*Cache)(nil)

// Cache stores scrape results in a BadgerDB key-value store.
// It is safe for concurrent use.
type Cache struct {
	db *badger.DB
}

// Open opens (or creates) a cache database at dir.
func Open(dir string) (*Cache, error) {
	opts := badger.DefaultOptions(dir).
		WithLogger(nil).
		WithNumVersionsToKeep(1)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening cache database at %s: %w", dir, err)
	}
	return &Cache{db: db}, nil
}

// OpenInMemory opens an ephemeral cache that lives only for the process.
// Useful in tests and for one-off runs.
func OpenInMemory() (*Cache, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening in-memory cache: %w", err)
	}
	return &Cache{db: db}, nil
}

// Get returns the value for key. The second return value reports whether the
// key was present and unexpired.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	var value []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, docsnare.Errorf(docsnare.EINTERNAL, "cache get: %v", err)
	}
	return value, true, nil
}

// Set stores value under key. A positive ttl bounds the entry's lifetime;
// zero or negative stores it without expiry.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := c.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), value)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		return docsnare.Errorf(docsnare.EINTERNAL, "cache set: %v", err)
	}
	return nil
}

// Close flushes and closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}
