package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Store implements ports.CredentialStore on Redis. Reads fail open: if the
// server is unreachable the caller sees an absent value, never an error, so
// the request path degrades to "no session" instead of crashing.
type Store struct {
	client *redis.Client
	logger zerolog.Logger
}

// New creates a Redis-backed credential store.
func New(client *redis.Client, logger zerolog.Logger) *Store {
	return &Store{client: client, logger: logger}
}

func (s *Store) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Credential store write failed")
		return err
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, bool) {
	value, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Credential store read failed, treating as absent")
		return "", false
	}
	return value, true
}

func (s *Store) Delete(ctx context.Context, key string) error {
	// DEL on a missing key is a no-op, which keeps deletes idempotent.
	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Credential store delete failed")
		return err
	}
	return nil
}
