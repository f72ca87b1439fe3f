package cache

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/dmitrijs2005/jobtracker/internal/domain"
)

type entry struct {
	stats   domain.Stats
	expires time.Time
}

type Memory struct {
	mu     sync.Mutex
	items  map[string]entry
	closed bool
	now    func() time.Time
}

func NewMemory() *Memory {
	return &Memory{items: make(map[string]entry), now: time.Now}
}

func (c *Memory) Get(_ context.Context, userID string) (domain.Stats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}
	e, ok := c.items[userID]
	if !ok {
		return nil, ErrNotFound
	}
	if !c.now().Before(e.expires) {
		delete(c.items, userID)
		return nil, ErrNotFound
	}
	return maps.Clone(e.stats), nil
}

func (c *Memory) Set(_ context.Context, userID string, stats domain.Stats, ttl time.Duration) error {
	if ttl == 0 {
		ttl = DefaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	c.items[userID] = entry{stats: maps.Clone(stats), expires: c.now().Add(ttl)}
	return nil
}

func (c *Memory) Delete(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	delete(c.items, userID)
	return nil
}

func (c *Memory) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.items = nil
	return nil
}
