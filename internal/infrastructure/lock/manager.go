package lock

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// Manager hands out per-account transfer locks.
type Manager struct {
	client *redis.Client
}

func NewManager(client *redis.Client) *Manager {
	return &Manager{client: client}
}

// Acquire blocks until the account's transfer lock is held and returns
// the release func. The holder value is a fresh uuid so a release after
// lock expiry cannot free another request's lock.
func (m *Manager) Acquire(ctx context.Context, accountNumber string) (func(), error) {
	l := NewTransferLock(m.client, accountNumber, uuid.NewString())
	if err := l.Lock(ctx, 100*time.Millisecond, 30); err != nil {
		return nil, err
	}
	return func() {
		// Release must run even when the request context is already
		// cancelled.
		l.Unlock(context.Background())
	}, nil
}
