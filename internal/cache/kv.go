package cache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Redis is a small JSON KV caching materialized revisions by ID. Revisions
// are immutable apart from the archived flip, so cached entries only need
// invalidation on update and archive.
type Redis struct {
	client *redis.Client
}

func NewRedis(addr string) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "", // No password set
		DB:       0,  // Use default DB
		Protocol: 2,  // Connection protocol
	})

	return &Redis{client: client}
}

func documentKey(id string) string {
	return "document:" + id
}

func (r *Redis) SetDocument(ctx context.Context, id string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, documentKey(id), data, ttl).Err()
}

func (r *Redis) GetDocument(ctx context.Context, id string, v any) error {
	data, err := r.client.Get(ctx, documentKey(id)).Bytes()
	if err != nil {
		return err
	}

	return json.Unmarshal(data, v)
}

func (r *Redis) DeleteDocument(ctx context.Context, id string) error {
	return r.client.Del(ctx, documentKey(id)).Err()
}
