package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock acquired with Locker.Lock.
type UnlockFunc func(ctx context.Context) error

// Locker serializes work on a key across processes, e.g. two runners solving
// the same scenario instance and racing to store its run.
type Locker interface {
	// Lock blocks until the lock is held or ctx is done. The lock expires
	// after ttl if it is never released.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
