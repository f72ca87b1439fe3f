package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/jobtracker/internal/domain"
	"github.com/dmitrijs2005/jobtracker/internal/logging"
	"github.com/dmitrijs2005/jobtracker/internal/server/cache"
	"github.com/dmitrijs2005/jobtracker/internal/server/config"
	"github.com/dmitrijs2005/jobtracker/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	bcryptCost = bcrypt.MinCost
}

func testConfig() *config.Config {
	return &config.Config{SecretKey: "k", AccessTokenValidityDuration: time.Hour}
}

func newMemoryServices(t *testing.T) (*UserService, *JobService, *spyCache) {
	t.Helper()
	m := repomanager.NewInMemoryRepositoryManager()
	c := &spyCache{StatsCache: cache.NewMemory()}
	return NewUserService(nil, m, testConfig(), logging.Discard()),
		NewJobService(nil, m, c, time.Minute, logging.Discard()),
		c
}

// spyCache counts calls and can be told to fail.
type spyCache struct {
	cache.StatsCache
	mu      sync.Mutex
	gets    int
	deletes int
	fail    bool
}

func (c *spyCache) Get(ctx context.Context, userID string) (domain.Stats, error) {
	c.mu.Lock()
	c.gets++
	fail := c.fail
	c.mu.Unlock()
	if fail {
		return nil, errors.New("cache down")
	}
	return c.StatsCache.Get(ctx, userID)
}

func (c *spyCache) Set(ctx context.Context, userID string, s domain.Stats, ttl time.Duration) error {
	c.mu.Lock()
	fail := c.fail
	c.mu.Unlock()
	if fail {
		return errors.New("cache down")
	}
	return c.StatsCache.Set(ctx, userID, s, ttl)
}

func (c *spyCache) Delete(ctx context.Context, userID string) error {
	c.mu.Lock()
	c.deletes++
	c.mu.Unlock()
	return c.StatsCache.Delete(ctx, userID)
}
