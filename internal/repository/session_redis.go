package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"mbs-pricing-ui/internal/config"
	"mbs-pricing-ui/internal/form"
)

const (
	sessionKeyPrefix = "mbs-pricing-ui:session:"

	// maxUpdateAttempts bounds the optimistic retries of Update
	maxUpdateAttempts = 10
)

// ErrUpdateConflict is returned when Update keeps losing the race for a session key
var ErrUpdateConflict = errors.New("session update conflict")

// RedisSessionRepository keeps sessions in Redis so several server replicas can share them
type RedisSessionRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisSessionRepository connects to Redis and verifies the connection
func NewRedisSessionRepository(ctx context.Context, cfg *config.RedisConfig, ttl time.Duration) (*RedisSessionRepository, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return NewRedisSessionRepositoryWithClient(rdb, ttl), nil
}

// NewRedisSessionRepositoryWithClient wraps an existing client
func NewRedisSessionRepositoryWithClient(rdb *redis.Client, ttl time.Duration) *RedisSessionRepository {
	return &RedisSessionRepository{rdb: rdb, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

// Load returns the stored state or a fresh form
func (r *RedisSessionRepository) Load(ctx context.Context, sessionID string) (*form.State, error) {
	return getState(ctx, r.rdb, sessionID)
}

func getState(ctx context.Context, c redis.Cmdable, sessionID string) (*form.State, error) {
	data, err := c.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return form.NewState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var state form.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &state, nil
}

// Save stores state with the session TTL
func (r *RedisSessionRepository) Save(ctx context.Context, sessionID string, state *form.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := r.rdb.Set(ctx, sessionKey(sessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Update watches the session key and writes the new state in a transaction,
// retrying when another writer changed the key in between
func (r *RedisSessionRepository) Update(ctx context.Context, sessionID string, fn func(*form.State) error) (*form.State, error) {
	key := sessionKey(sessionID)

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		var updated *form.State
		err := r.rdb.Watch(ctx, func(tx *redis.Tx) error {
			state, err := getState(ctx, tx, sessionID)
			if err != nil {
				return err
			}
			if err := fn(state); err != nil {
				return err
			}

			data, err := json.Marshal(state)
			if err != nil {
				return fmt.Errorf("failed to encode session: %w", err)
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, data, r.ttl)
				return nil
			})
			if err != nil {
				return err
			}
			updated = state
			return nil
		}, key)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUpdateConflict, sessionID)
}

// Close closes the Redis connection
func (r *RedisSessionRepository) Close() error {
	return r.rdb.Close()
}

var _ SessionRepository = (*RedisSessionRepository)(nil)
