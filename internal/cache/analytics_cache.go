package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"formsmith/internal/model"
)

// AnalyticsCache holds the last computed analytics per form
type AnalyticsCache interface {
	Get(ctx context.Context, formID string) (*model.FormAnalytics, error)
	Set(ctx context.Context, analytics *model.FormAnalytics) error
	Invalidate(ctx context.Context, formID string) error
}

type analyticsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAnalyticsCache creates a new analytics cache
func NewAnalyticsCache(client *redis.Client) AnalyticsCache {
	return &analyticsCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func (c *analyticsCache) key(formID string) string {
	return fmt.Sprintf("form:%s:analytics", formID)
}

func (c *analyticsCache) Get(ctx context.Context, formID string) (*model.FormAnalytics, error) {
	data, err := c.client.Get(ctx, c.key(formID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var analytics model.FormAnalytics
	if err := json.Unmarshal([]byte(data), &analytics); err != nil {
		return nil, err
	}
	return &analytics, nil
}

func (c *analyticsCache) Set(ctx context.Context, analytics *model.FormAnalytics) error {
	data, err := json.Marshal(analytics)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(analytics.FormID), data, c.ttl).Err()
}

func (c *analyticsCache) Invalidate(ctx context.Context, formID string) error {
	return c.client.Del(ctx, c.key(formID)).Err()
}
