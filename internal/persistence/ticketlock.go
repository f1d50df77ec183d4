package persistence

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// TicketLock serializes escalation processing per ticket across overlapping
// sweeps (and across instances sharing the same Redis). A lock is held for at
// most the configured TTL; losing the race means skipping the ticket for the
// current pass.
type TicketLock struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTicketLock builds a lock helper around an existing client.
func NewTicketLock(client *redis.Client, ttl time.Duration) *TicketLock {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &TicketLock{client: client, ttl: ttl}
}

// Acquire attempts to take the per-ticket lock. Without a configured client
// the lock degrades to a no-op and always succeeds.
func (l *TicketLock) Acquire(ctx context.Context, ticketID string) (bool, error) {
	if l == nil || l.client == nil {
		return true, nil
	}
	return l.client.SetNX(ctx, lockKey(ticketID), "1", l.ttl).Result()
}

// Release drops the lock early; expiry covers the failure paths.
func (l *TicketLock) Release(ctx context.Context, ticketID string) {
	if l == nil || l.client == nil {
		return
	}
	_ = l.client.Del(ctx, lockKey(ticketID)).Err()
}

func lockKey(ticketID string) string {
	return "automation:ticket-lock:" + ticketID
}
