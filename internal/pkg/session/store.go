// Package session keeps authenticated users and course read models in Redis.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yigit/learnhub/internal/app/models"
)

// ErrSessionNotFound is returned when no session is cached for a user
var ErrSessionNotFound = errors.New("session not found")

// Store caches the authenticated user payload keyed by user id.
// Entries expire together with the refresh token that created them.
type Store struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewStore creates a session store whose entries live for ttl
func NewStore(rdb redis.Cmdable, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func sessionKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

// Save writes (or rewrites) the session and resets its expiry
func (s *Store) Save(ctx context.Context, user *models.User) error {
	return setJSON(ctx, s.rdb, sessionKey(user.ID), user, s.ttl)
}

// Get loads the cached user
func (s *Store) Get(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User
	found, err := getJSON(ctx, s.rdb, sessionKey(userID), &user)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrSessionNotFound
	}
	return &user, nil
}

// Delete removes the session; deleting a missing session is not an error
func (s *Store) Delete(ctx context.Context, userID int64) error {
	if err := s.rdb.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func setJSON(ctx context.Context, rdb redis.Cmdable, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache %s: %w", key, err)
	}
	return nil
}

func getJSON(ctx context.Context, rdb redis.Cmdable, key string, v any) (bool, error) {
	data, err := rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}
