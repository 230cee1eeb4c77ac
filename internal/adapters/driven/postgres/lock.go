package postgres

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/custodia-labs/stockmirror/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DistributedLock = (*AdvisoryLock)(nil)

// AdvisoryLock implements the distributed lock on PostgreSQL session
// advisory locks. Used when no Redis is configured. The lock lives as long
// as the session, so TTLs are advisory only and Extend is a no-op.
type AdvisoryLock struct {
	db *DB
}

// NewAdvisoryLock creates an advisory lock backed by the given database.
func NewAdvisoryLock(db *DB) *AdvisoryLock {
	return &AdvisoryLock{db: db}
}

// Acquire attempts a non-blocking advisory lock on the name's hash.
func (l *AdvisoryLock) Acquire(ctx context.Context, name string, _ time.Duration) (bool, error) {
	var acquired bool
	err := l.db.QueryRowContext(ctx,
		`SELECT pg_try_advisory_lock($1)`, lockKey(name)).Scan(&acquired)
	if err != nil {
		return false, fmt.Errorf("failed to acquire advisory lock %q: %w", name, err)
	}
	return acquired, nil
}

// Release unlocks the name's advisory lock.
func (l *AdvisoryLock) Release(ctx context.Context, name string) error {
	var released bool
	err := l.db.QueryRowContext(ctx,
		`SELECT pg_advisory_unlock($1)`, lockKey(name)).Scan(&released)
	if err != nil {
		return fmt.Errorf("failed to release advisory lock %q: %w", name, err)
	}
	return nil
}

// Extend is a no-op; session advisory locks have no TTL.
func (l *AdvisoryLock) Extend(_ context.Context, _ string, _ time.Duration) error {
	return nil
}

func lockKey(name string) int64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return int64(h.Sum64())
}
