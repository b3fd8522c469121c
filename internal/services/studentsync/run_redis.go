package studentsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const runKeyPrefix = "sync:run:"

// RedisRunStore keeps runs as JSON strings that expire after ttl.
type RedisRunStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRunStore(client *redis.Client, ttl time.Duration) *RedisRunStore {
	return &RedisRunStore{client: client, ttl: ttl}
}

func runKey(id uuid.UUID) string {
	return runKeyPrefix + id.String()
}

func (r *RedisRunStore) Save(ctx context.Context, run *Run) error {
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to encode run %s: %w", run.ID, err)
	}
	if err := r.client.Set(ctx, runKey(run.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save run %s to Redis: %w", run.ID, err)
	}
	return nil
}

func (r *RedisRunStore) Get(ctx context.Context, id uuid.UUID) (*Run, error) {
	data, err := r.client.Get(ctx, runKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to get run %s from Redis: %w", id, err)
	}
	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to decode run %s: %w", id, err)
	}
	return &run, nil
}
