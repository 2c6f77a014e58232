// Package lock implements a Redis SET NX EX lock. The transfer path takes
// it per source account before opening the database transaction, so one
// customer's operations are serialized ahead of the row locks and two
// rapid submits of the same transfer do not both reach the database.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

var ErrLockFailed = errors.New("could not acquire lock")

// DistributedLock is one named lock instance. value identifies the holder
// so Unlock never releases a lock that has since been taken by someone
// else.
type DistributedLock struct {
	client     *redis.Client
	key        string
	value      string
	expiration time.Duration
}

func NewDistributedLock(client *redis.Client, key, value string, expiration time.Duration) *DistributedLock {
	return &DistributedLock{
		client:     client,
		key:        key,
		value:      value,
		expiration: expiration,
	}
}

// TryLock attempts to take the lock without blocking. SET NX guarantees a
// single holder; EX bounds how long a crashed holder can keep it.
func (l *DistributedLock) TryLock(ctx context.Context) (bool, error) {
	success, err := l.client.SetNX(ctx, l.key, l.value, l.expiration).Result()
	if err != nil {
		return false, err
	}
	return success, nil
}

// Lock retries TryLock until it succeeds, maxRetries is spent, or ctx is
// done.
func (l *DistributedLock) Lock(ctx context.Context, retryInterval time.Duration, maxRetries int) error {
	for i := 0; i < maxRetries; i++ {
		success, err := l.TryLock(ctx)
		if err != nil {
			return err
		}
		if success {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryInterval):
		}
	}
	return ErrLockFailed
}

// Unlock releases the lock if we still hold it. The check-then-delete
// pair runs as one Lua script so an expired lock taken over by another
// holder is never deleted by us.
func (l *DistributedLock) Unlock(ctx context.Context) error {
	script := `
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("DEL", KEYS[1])
		else
			return 0
		end
	`
	_, err := l.client.Eval(ctx, script, []string{l.key}, l.value).Result()
	return err
}

// NewTransferLock locks money movement for one source account. Keyed per
// account so different customers transfer concurrently while one
// customer's own operations queue.
func NewTransferLock(client *redis.Client, accountNumber, holder string) *DistributedLock {
	key := fmt.Sprintf("transfer:lock:account:%s", accountNumber)
	return NewDistributedLock(client, key, holder, 30*time.Second)
}
