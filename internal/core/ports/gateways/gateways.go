package gateways

import (
	"context"
	"errors"
	"time"

	"github.com/SscSPs/erp_lite/internal/core/domain"
)

// EventPublisher hands committed document events to downstream consumers (mailers, PDF
// rendering). It is never called inside a database transaction.
type EventPublisher interface {
	Publish(ctx context.Context, events ...domain.DocumentEvent) error
}

// ErrLockLost is returned by Lease.Refresh once the lease expired or another holder took the key.
var ErrLockLost = errors.New("lock lost")

// Lease is a held lock.
type Lease interface {
	// Refresh pushes the expiry to ttl from now.
	Refresh(ctx context.Context, ttl time.Duration) error
	// Release gives the lock up. Releasing a lease that already expired is not an error.
	Release(ctx context.Context) error
}

// Locker provides a lock shared by every process running the sweeper.
type Locker interface {
	// TryLock attempts to take key for at most ttl. When acquired is false another holder owns
	// the key and lease is nil.
	TryLock(ctx context.Context, key string, ttl time.Duration) (lease Lease, acquired bool, err error)
}

// Cache stores JSON-serialisable values with a TTL. Keys are versioned: Invalidate makes every
// entry written before it unreachable.
type Cache interface {
	// Get decodes the cached value for key into dest and reports whether it was present.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

// SweepRecorder observes completed sweeper passes.
type SweepRecorder interface {
	RecordSweep(result domain.SweepResult, duration time.Duration, err error)
}
