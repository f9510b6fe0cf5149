package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "session:"
	resetKeyPrefix   = "pwreset:"
)

// RedisStore implements SessionStore and ResetTokenStore on Redis.
// Expiry is delegated to key TTLs.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a Redis-backed session and reset-token store.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Create(ctx context.Context, s *Session, ttl time.Duration) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("auth: failed to encode session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKeyPrefix+s.Token, payload, ttl).Err(); err != nil {
		return fmt.Errorf("auth: failed to store session: %w", err)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	payload, err := r.client.Get(ctx, sessionKeyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("auth: failed to load session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("auth: failed to decode session: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) Update(ctx context.Context, s *Session) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("auth: failed to encode session: %w", err)
	}

	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return ErrSessionNotFound
	}
	if err := r.client.Set(ctx, sessionKeyPrefix+s.Token, payload, ttl).Err(); err != nil {
		return fmt.Errorf("auth: failed to store session: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("auth: failed to delete session: %w", err)
	}
	return nil
}

func (r *RedisStore) CreateResetToken(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	if err := r.client.Set(ctx, resetKeyPrefix+token, userID.String(), ttl).Err(); err != nil {
		return fmt.Errorf("auth: failed to store reset token: %w", err)
	}
	return nil
}

func (r *RedisStore) ConsumeResetToken(ctx context.Context, token string) (uuid.UUID, error) {
	val, err := r.client.GetDel(ctx, resetKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, ErrInvalidResetToken
		}
		return uuid.Nil, fmt.Errorf("auth: failed to consume reset token: %w", err)
	}

	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, ErrInvalidResetToken
	}
	return id, nil
}

var (
	_ SessionStore    = (*RedisStore)(nil)
	_ ResetTokenStore = (*RedisStore)(nil)
)
