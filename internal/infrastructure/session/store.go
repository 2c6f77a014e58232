// Package session stores login sessions in Redis: one key per token,
// value the account number, expiring after the configured TTL. Tokens are
// carried explicitly by callers; nothing here is ambient state.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrNotFound means the token is unknown or expired.
var ErrNotFound = errors.New("session not found")

type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func key(token string) string {
	return fmt.Sprintf("session:token:%s", token)
}

// Put binds token to accountNumber for the store's TTL.
func (s *Store) Put(ctx context.Context, token, accountNumber string) error {
	return s.client.Set(ctx, key(token), accountNumber, s.ttl).Err()
}

// Get resolves a token to its account number and refreshes the TTL, so
// active sessions slide rather than expire mid-use.
func (s *Store) Get(ctx context.Context, token string) (string, error) {
	accountNumber, err := s.client.Get(ctx, key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", err
	}
	// Best effort; an expired refresh just ends the session sooner.
	s.client.Expire(ctx, key(token), s.ttl)
	return accountNumber, nil
}

// Delete ends the session. Deleting an unknown token is not an error.
func (s *Store) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, key(token)).Err()
}
