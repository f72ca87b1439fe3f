package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/jobtracker/internal/domain"
	"github.com/redis/go-redis/v9"
)

type Redis struct {
	client *redis.Client
}

func NewRedis(opts Options) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.RedisAddr,
		Password: opts.RedisPassword,
		DB:       opts.RedisDB,
	})

	return &Redis{client: client}
}

func (c *Redis) Get(ctx context.Context, userID string) (domain.Stats, error) {
	val, err := c.client.Get(ctx, statsKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var stats domain.Stats
	if err := json.Unmarshal(val, &stats); err != nil {
		return nil, fmt.Errorf("decode cached stats: %w", err)
	}
	return stats, nil
}

func (c *Redis) Set(ctx context.Context, userID string, stats domain.Stats, ttl time.Duration) error {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	b, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, statsKey(userID), b, ttl).Err()
}

func (c *Redis) Delete(ctx context.Context, userID string) error {
	return c.client.Del(ctx, statsKey(userID)).Err()
}

// Ping checks connectivity; used at startup.
func (c *Redis) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Redis) Close() error {
	return c.client.Close()
}
