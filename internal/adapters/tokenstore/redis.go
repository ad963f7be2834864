package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"squarepad/internal/core/domain"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Redis persists OAuth tokens keyed by the authorized app id.
type Redis struct {
	client *redis.Client
	prefix string
}

func NewRedis(cfg domain.Config) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}),
		prefix: cfg.RedisPrefix,
	}
}

// NewRedisWithClient is used by tests to run against an in-memory server.
func NewRedisWithClient(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) key(appID string) string {
	return r.prefix + appID
}

func (r *Redis) Get(ctx context.Context, appID string) (*domain.AuthToken, error) {
	value, err := r.client.Get(ctx, r.key(appID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error loading token: %w", err)
	}

	var token domain.AuthToken
	if err := json.Unmarshal([]byte(value), &token); err != nil {
		return nil, fmt.Errorf("error unmarshalling stored token: %w", err)
	}

	return &token, nil
}

func (r *Redis) Save(ctx context.Context, appID string, token *domain.AuthToken) error {
	value, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("error marshalling token: %w", err)
	}

	if err := r.client.Set(ctx, r.key(appID), value, 0).Err(); err != nil {
		return fmt.Errorf("error persisting token: %w", err)
	}

	log.Debug().Str("appId", appID).Msg("persisted auth token")

	return nil
}
