package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNoSession is returned when no refresh token is registered for a user.
var ErrNoSession = errors.New("no active session")

// SessionRegistry records the single currently-valid refresh token per user.
// Overwriting on login and byte-matching on refresh is what makes server-side
// revocation and reuse detection possible for otherwise self-contained JWTs.
type SessionRegistry interface {
	Store(ctx context.Context, userID, refreshToken string, ttl time.Duration) error
	Fetch(ctx context.Context, userID string) (string, error)
	Revoke(ctx context.Context, userID string) error
}

const sessionKeyPrefix = "refresh_token:"

// RedisSessionRegistry implements SessionRegistry on Redis. Store and Revoke
// failures propagate: a session the registry never recorded must not look alive.
type RedisSessionRegistry struct {
	cache *redis.Client
}

// NewRedisSessionRegistry builds a Redis-backed session registry.
func NewRedisSessionRegistry(cache *redis.Client) *RedisSessionRegistry {
	return &RedisSessionRegistry{cache: cache}
}

// Store upserts the user's refresh token, replacing any prior session.
func (r *RedisSessionRegistry) Store(ctx context.Context, userID, refreshToken string, ttl time.Duration) error {
	if err := r.cache.Set(ctx, sessionKeyPrefix+userID, refreshToken, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Fetch returns the registered refresh token, or ErrNoSession.
func (r *RedisSessionRegistry) Fetch(ctx context.Context, userID string) (string, error) {
	token, err := r.cache.Get(ctx, sessionKeyPrefix+userID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNoSession
		}
		return "", fmt.Errorf("fetch session: %w", err)
	}
	return token, nil
}

// Revoke deletes the user's session entry. Deleting an absent entry is not an error.
func (r *RedisSessionRegistry) Revoke(ctx context.Context, userID string) error {
	if err := r.cache.Del(ctx, sessionKeyPrefix+userID).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}
