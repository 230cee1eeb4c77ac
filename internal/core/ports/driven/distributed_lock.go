package driven

import (
	"context"
	"time"
)

// DistributedLock coordinates exclusive operations across instances.
// The engine takes the run lock before every sync so overlapping invocations
// are refused rather than raced.
type DistributedLock interface {
	// Acquire attempts to acquire a named lock with the given TTL.
	// Returns true if acquired, false if held elsewhere.
	Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error)

	// Release releases a named lock if held by this instance.
	Release(ctx context.Context, name string) error

	// Extend extends the TTL of a currently held lock.
	Extend(ctx context.Context, name string, ttl time.Duration) error
}
