package store

import (
	"context"
	"fmt"
	"time"

	"database/sql"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"
)

type DB struct {
	Pool *sql.DB

	lock *flock.Flock
}

// Open opens (and locks) the sqlite database at path. The lock file
// keeps a second jobhunter process from sharing the single writer.
func Open(path string) (*DB, error) {
	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("database %s is in use by another jobhunter process", path)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}

	// sqlite wants a single writer
	pool.SetMaxOpenConns(1)
	pool.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		_ = lock.Unlock()
		return nil, err
	}

	return &DB{Pool: pool, lock: lock}, nil
}

// OpenMemory opens an unlocked in-memory database, mainly for tests.
func OpenMemory() (*DB, error) {
	pool, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	pool.SetMaxOpenConns(1)
	return &DB{Pool: pool}, nil
}

func (d *DB) Close() error {
	if d == nil {
		return nil
	}
	if d.lock != nil {
		defer func() { _ = d.lock.Unlock() }()
	}
	if d.Pool == nil {
		return nil
	}
	return d.Pool.Close()
}
