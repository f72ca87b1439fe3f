// Package cache keeps per-user status counts between mutations. A Redis
// backend is used when configured, otherwise an in-process map.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/jobtracker/internal/domain"
)

var (
	ErrNotFound = errors.New("key not found in cache")
	ErrClosed   = errors.New("cache is closed")
)

// DefaultTTL applies when Set is called with a zero ttl.
const DefaultTTL = time.Minute

type StatsCache interface {
	// Get returns ErrNotFound on a miss or an expired entry.
	Get(ctx context.Context, userID string) (domain.Stats, error)
	Set(ctx context.Context, userID string, stats domain.Stats, ttl time.Duration) error
	Delete(ctx context.Context, userID string) error
	Close() error
}

// Options configures New.
type Options struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// New returns a Redis cache when opts.RedisAddr is set, otherwise a memory cache.
func New(opts Options) StatsCache {
	if opts.RedisAddr == "" {
		return NewMemory()
	}
	return NewRedis(opts)
}

func statsKey(userID string) string {
	return "jobtracker:stats:" + userID
}
