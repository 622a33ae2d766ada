package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// BootstrapLock serializes one-time startup work across replicas using a
// Redis SETNX lease. Key format: bootstrap:<name>
//
// The credential store's unique username index remains the final arbiter for
// the super-admin bootstrap; the lock only avoids needless duplicate
// attempts when several replicas start at once.
type BootstrapLock struct {
	client *redis.Client
}

// NewBootstrapLock creates a BootstrapLock wrapping the given Redis client.
func NewBootstrapLock(client *redis.Client) *BootstrapLock {
	return &BootstrapLock{client: client}
}

// Acquire attempts to take the named lease for ttl. It reports whether this
// process now holds the lease.
func (l *BootstrapLock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key(name), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire lock: %w", err)
	}
	return ok, nil
}

// Release drops the lease early so a failed bootstrap can be retried by the
// next starting replica without waiting out the ttl.
func (l *BootstrapLock) Release(ctx context.Context, name string) error {
	return l.client.Del(ctx, l.key(name)).Err()
}

func (l *BootstrapLock) key(name string) string {
	return fmt.Sprintf("bootstrap:%s", name)
}
