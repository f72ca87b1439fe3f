// Package epoch provides the shared refresh counter. It is bumped after every
// confirmed successful mutation; views that must resynchronise with the
// server subscribe to it.
package epoch

import "sync"

type Counter struct {
	mu     sync.Mutex
	value  uint64
	nextID int
	subs   map[int]func(uint64)
}

func NewCounter() *Counter {
	return &Counter{subs: make(map[int]func(uint64))}
}

func (c *Counter) Value() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Bump increments the counter and notifies subscribers with the new value.
// Subscribers run on the caller's goroutine, after the lock is released.
func (c *Counter) Bump() uint64 {
	c.mu.Lock()
	c.value++
	v := c.value
	subs := make([]func(uint64), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(v)
	}
	return v
}

// Subscribe registers fn and returns a function that removes it.
func (c *Counter) Subscribe(fn func(uint64)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
		})
	}
}
