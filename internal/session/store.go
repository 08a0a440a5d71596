package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// Store is an explicit, time-bounded session store backed by Redis.
// A session is created at login keyed by the token's JWT ID and expires
// via Redis TTL; there are no in-process timers or global maps.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore constructs a session store with the given lifetime.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Create registers a session for the user.
func (s *Store) Create(ctx context.Context, sessionID, userID string) error {
	return s.client.Set(ctx, keyPrefix+sessionID, userID, s.ttl).Err()
}

// Get returns the user id bound to the session, or redis.Nil when the
// session does not exist or has expired.
func (s *Store) Get(ctx context.Context, sessionID string) (string, error) {
	return s.client.Get(ctx, keyPrefix+sessionID).Result()
}

// Delete revokes a session immediately.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, keyPrefix+sessionID).Err()
}

// Validate confirms the session exists and belongs to the given user.
func (s *Store) Validate(ctx context.Context, sessionID, userID string) error {
	owner, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if owner != userID {
		return fmt.Errorf("session %s not owned by user", sessionID)
	}
	return nil
}
