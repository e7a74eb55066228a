package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"formsmith/internal/model"
)

// FormCache keeps form definitions close to the respondent path
type FormCache interface {
	Get(ctx context.Context, id string) (*model.FormDefinition, error)
	Set(ctx context.Context, form *model.FormDefinition) error
	Delete(ctx context.Context, id string) error
}

type formCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFormCache creates a new form cache
func NewFormCache(client *redis.Client, ttl time.Duration) FormCache {
	return &formCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *formCache) key(id string) string {
	return fmt.Sprintf("form:%s", id)
}

func (c *formCache) Get(ctx context.Context, id string) (*model.FormDefinition, error) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var form model.FormDefinition
	if err := json.Unmarshal(data, &form); err != nil {
		return nil, err
	}
	return &form, nil
}

func (c *formCache) Set(ctx context.Context, form *model.FormDefinition) error {
	data, err := json.Marshal(form)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(form.ID), data, c.ttl).Err()
}

func (c *formCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id)).Err()
}
