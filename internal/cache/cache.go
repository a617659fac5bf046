// Package cache provides the coalescing result cache for search responses.
//
// The cache keys complete ranked results by request fingerprint. Concurrent
// requests for the same fingerprint are coalesced through singleflight so at
// most one computation runs at a time; every waiter receives the same result
// or the same error. Successful results are kept for a TTL and evicted
// least-recently-used beyond capacity. Errors are never cached.
package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/skymind/travel-decision-engine/internal/domain"
	"github.com/skymind/travel-decision-engine/internal/infrastructure/timeutil"
)

const (
	// DefaultTTL is how long a cached result stays valid.
	DefaultTTL = 5 * time.Minute

	// DefaultCapacity is the maximum number of cached results.
	DefaultCapacity = 128
)

// ComputeFunc produces a fresh ranked result for a cache miss.
type ComputeFunc func(ctx context.Context) (*domain.RankedResult, error)

// ResultCache is a TTL+LRU cache over ranked search results with
// singleflight request coalescing. Safe for concurrent use.
type ResultCache struct {
	ttl      time.Duration
	capacity int
	clock    timeutil.Clock

	group singleflight.Group

	mu      sync.Mutex
	entries map[domain.Fingerprint]*list.Element
	order   *list.List // front = most recently used
}

type entry struct {
	key       domain.Fingerprint
	result    *domain.RankedResult
	expiresAt time.Time
}

// New creates a ResultCache. Non-positive ttl or capacity fall back to the
// defaults; a nil clock means real time.
func New(ttl time.Duration, capacity int, clock timeutil.Clock) *ResultCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if clock == nil {
		clock = timeutil.NewRealClock()
	}
	return &ResultCache{
		ttl:      ttl,
		capacity: capacity,
		clock:    clock,
		entries:  make(map[domain.Fingerprint]*list.Element),
		order:    list.New(),
	}
}

// Resolve returns the cached result for key, or runs compute to produce one.
// The boolean reports whether the result came from the cache.
//
// Concurrent Resolve calls with the same key share a single compute
// invocation. The computation runs detached from any one caller's
// cancellation, so a waiter timing out does not abort the flight for the
// others; the waiter itself still returns its context error promptly.
func (c *ResultCache) Resolve(ctx context.Context, key domain.Fingerprint, compute ComputeFunc) (*domain.RankedResult, bool, error) {
	if result, ok := c.lookup(key); ok {
		return result, true, nil
	}

	ch := c.group.DoChan(string(key), func() (any, error) {
		result, err := compute(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.store(key, result)
		return result, nil
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		return res.Val.(*domain.RankedResult), false, nil
	}
}

// Len returns the number of live entries. Expired entries still count until
// a lookup or eviction removes them.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Invalidate removes the entry for key, if present.
func (c *ResultCache) Invalidate(key domain.Fingerprint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.entries[key]; ok {
		c.remove(elem)
	}
}

func (c *ResultCache) lookup(key domain.Fingerprint) (*domain.RankedResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	ent := elem.Value.(*entry)
	if !c.clock.Now().Before(ent.expiresAt) {
		c.remove(elem)
		return nil, false
	}
	c.order.MoveToFront(elem)
	return ent.result, true
}

func (c *ResultCache) store(key domain.Fingerprint, result *domain.RankedResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.clock.Now().Add(c.ttl)
	if elem, ok := c.entries[key]; ok {
		ent := elem.Value.(*entry)
		ent.result = result
		ent.expiresAt = expiresAt
		c.order.MoveToFront(elem)
		return
	}

	c.entries[key] = c.order.PushFront(&entry{key: key, result: result, expiresAt: expiresAt})
	for c.order.Len() > c.capacity {
		c.remove(c.order.Back())
	}
}

// remove must be called with the lock held.
func (c *ResultCache) remove(elem *list.Element) {
	ent := elem.Value.(*entry)
	delete(c.entries, ent.key)
	c.order.Remove(elem)
}
