// Package tokenstore persists hashed refresh tokens in Redis with their
// TTL, keyed per token with a per-user index for bulk revocation.
package tokenstore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrTokenNotFound is returned when a refresh token hash is unknown,
// expired or already revoked.
var ErrTokenNotFound = errors.New("refresh token not found")

const (
	tokenKeyPrefix = "auth:refresh:"
	userKeyPrefix  = "auth:user_tokens:"
)

// Store defines refresh token persistence operations.
type Store interface {
	Save(ctx context.Context, tokenHash string, userID uuid.UUID, ttl time.Duration) error
	Resolve(ctx context.Context, tokenHash string) (uuid.UUID, error)
	Revoke(ctx context.Context, tokenHash string) error
	RevokeAll(ctx context.Context, userID uuid.UUID) error
}

// RedisStore implements Store on Redis. Expiry is delegated to key TTLs, so
// expired tokens vanish without a cleanup job.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed refresh token store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Compile-time check that RedisStore implements Store.
var _ Store = (*RedisStore)(nil)

// Save records a token hash for the user with the given TTL.
func (s *RedisStore) Save(ctx context.Context, tokenHash string, userID uuid.UUID, ttl time.Duration) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, tokenKeyPrefix+tokenHash, userID.String(), ttl)
	pipe.SAdd(ctx, userKeyPrefix+userID.String(), tokenHash)
	// Keep the index at least as long as the longest-lived token.
	pipe.Expire(ctx, userKeyPrefix+userID.String(), ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// Resolve returns the owning user for a token hash.
func (s *RedisStore) Resolve(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	value, err := s.client.Get(ctx, tokenKeyPrefix+tokenHash).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, ErrTokenNotFound
	}
	if err != nil {
		return uuid.Nil, err
	}

	userID, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, ErrTokenNotFound
	}
	return userID, nil
}

// Revoke deletes a single token hash.
func (s *RedisStore) Revoke(ctx context.Context, tokenHash string) error {
	userID, err := s.Resolve(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, tokenKeyPrefix+tokenHash)
	pipe.SRem(ctx, userKeyPrefix+userID.String(), tokenHash)
	_, err = pipe.Exec(ctx)
	return err
}

// RevokeAll deletes every live token for a user.
func (s *RedisStore) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	userKey := userKeyPrefix + userID.String()
	hashes, err := s.client.SMembers(ctx, userKey).Result()
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	for _, hash := range hashes {
		pipe.Del(ctx, tokenKeyPrefix+hash)
	}
	pipe.Del(ctx, userKey)
	_, err = pipe.Exec(ctx)
	return err
}
