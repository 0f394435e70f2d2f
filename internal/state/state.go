package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ProgressTracker remembers which documents were already converted, keyed by
// a fingerprint of the source file.
type ProgressTracker interface {
	IsConverted(ctx context.Context, document, fingerprint string) (bool, error)
	MarkConverted(ctx context.Context, document, fingerprint string) error
}

type redisProgressTracker struct {
	redisClient *redis.Client
	keyPrefix   string
}

func NewRedisProgressTracker(redisClient *redis.Client) ProgressTracker {
	return &redisProgressTracker{
		redisClient: redisClient,
		keyPrefix:   "journals:converted:",
	}
}

func (s *redisProgressTracker) IsConverted(ctx context.Context, document, fingerprint string) (bool, error) {
	key := s.keyPrefix + document
	val, err := s.redisClient.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil // Never converted
		}
		return false, fmt.Errorf("failed to get conversion state for %s: %w", document, err)
	}

	return val == fingerprint, nil
}

func (s *redisProgressTracker) MarkConverted(ctx context.Context, document, fingerprint string) error {
	key := s.keyPrefix + document
	err := s.redisClient.Set(ctx, key, fingerprint, 0).Err() // No expiration
	if err != nil {
		return fmt.Errorf("failed to set conversion state for %s: %w", document, err)
	}
	return nil
}
