package loyalty

import (
	"context"
	"sync"
	"time"

	"marketfill/internal/pkg/clock"

	"github.com/google/uuid"
)

// Trailing window the loyalty rule evaluates over.
const windowMonths = 6

// Counter reads a customer's order count since a point in time.
type Counter interface {
	RecentOrderCount(ctx context.Context, customerID uuid.UUID, since time.Time) (int, error)
}

type entry struct {
	count     int
	expiresAt time.Time
}

// Cache memoizes per-customer order counts with a bounded TTL. It is
// advisory: a stale count only skews the loyalty discount until the
// entry expires or a commit invalidates it, never stock correctness.
type Cache struct {
	mu      sync.Mutex
	entries map[uuid.UUID]entry
	ttl     time.Duration
	clock   clock.Clock
	counter Counter
}

func NewCache(counter Counter, clk clock.Clock, ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[uuid.UUID]entry),
		ttl:     ttl,
		clock:   clk,
		counter: counter,
	}
}

// OrderCount returns the customer's order count over the trailing
// window, serving from the cache when the entry is still fresh.
func (c *Cache) OrderCount(ctx context.Context, customerID uuid.UUID) (int, error) {
	now := c.clock.Now()

	c.mu.Lock()
	if e, ok := c.entries[customerID]; ok && now.Before(e.expiresAt) {
		c.mu.Unlock()
		return e.count, nil
	}
	c.mu.Unlock()

	since := now.AddDate(0, -windowMonths, 0)
	count, err := c.counter.RecentOrderCount(ctx, customerID, since)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	c.entries[customerID] = entry{count: count, expiresAt: now.Add(c.ttl)}
	c.mu.Unlock()

	return count, nil
}

// Invalidate drops the customer's entry. Called after an order commit
// so the next evaluation sees the new order.
func (c *Cache) Invalidate(customerID uuid.UUID) {
	c.mu.Lock()
	delete(c.entries, customerID)
	c.mu.Unlock()
}
