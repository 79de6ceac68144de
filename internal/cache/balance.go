package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// BalanceLoader computes a user's balance from the store.
type BalanceLoader func(ctx context.Context, userID int64) (decimal.Decimal, error)

// BalanceCache caches per-user balances. Concurrent misses for one user
// share a single load, and Invalidate bumps a per-user generation so a load
// started before a write can neither be stored nor joined afterwards.
type BalanceCache struct {
	load    BalanceLoader
	entries *LRUCache[int64, decimal.Decimal]
	group   singleflight.Group

	mu   sync.Mutex
	gens map[int64]uint64
}

// NewBalanceCache returns a cache over load. A ttl of zero disables caching;
// every Get then calls load.
func NewBalanceCache(load BalanceLoader, maxSize int, ttl time.Duration) *BalanceCache {
	c := &BalanceCache{load: load, gens: make(map[int64]uint64)}
	if ttl > 0 {
		c.entries = NewLRUCache[int64, decimal.Decimal](maxSize, ttl)
	}
	return c
}

func (c *BalanceCache) Get(ctx context.Context, userID int64) (decimal.Decimal, error) {
	if c.entries == nil {
		return c.load(ctx, userID)
	}
	if v, ok := c.entries.Get(userID); ok {
		return v, nil
	}

	gen := c.generation(userID)
	key := strconv.FormatInt(userID, 10) + ":" + strconv.FormatUint(gen, 10)
	v, err, _ := c.group.Do(key, func() (any, error) {
		balance, err := c.load(ctx, userID)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.gens[userID] == gen {
			c.entries.Set(userID, balance)
		}
		c.mu.Unlock()
		return balance, nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return v.(decimal.Decimal), nil
}

// Invalidate drops the cached balance of userID.
func (c *BalanceCache) Invalidate(userID int64) {
	if c.entries == nil {
		return
	}
	c.mu.Lock()
	c.gens[userID]++
	c.entries.Delete(userID)
	c.mu.Unlock()
}

func (c *BalanceCache) CleanExpired() int {
	if c.entries == nil {
		return 0
	}
	return c.entries.CleanExpired()
}

func (c *BalanceCache) generation(userID int64) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[userID]
}
