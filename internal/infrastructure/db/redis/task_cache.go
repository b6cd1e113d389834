package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/primetrade/taskboard/internal/core/domain"
)

const cacheTTL = 30 * time.Second

// TaskCache is a short-lived per-owner cache of task lists.
// Key format: tasks:<owner_id>
type TaskCache struct {
	client *redis.Client
}

// NewTaskCache creates a TaskCache wrapping the given Redis client.
func NewTaskCache(client *redis.Client) *TaskCache {
	return &TaskCache{client: client}
}

// Get returns the cached list for ownerID. The second return value reports
// whether the key was present.
func (c *TaskCache) Get(ctx context.Context, ownerID string) ([]domain.Task, bool, error) {
	raw, err := c.client.Get(ctx, c.key(ownerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("task cache get: %w", err)
	}

	var tasks []domain.Task
	if err := json.Unmarshal(raw, &tasks); err != nil {
		return nil, false, fmt.Errorf("task cache decode: %w", err)
	}
	return tasks, true, nil
}

// Set stores the list for ownerID (expires after cacheTTL).
func (c *TaskCache) Set(ctx context.Context, ownerID string, tasks []domain.Task) error {
	raw, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("task cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(ownerID), raw, cacheTTL).Err()
}

// Invalidate drops the cached list so the next read hits the store.
func (c *TaskCache) Invalidate(ctx context.Context, ownerID string) error {
	return c.client.Del(ctx, c.key(ownerID)).Err()
}

func (c *TaskCache) key(ownerID string) string {
	return "tasks:" + ownerID
}
