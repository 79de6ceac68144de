package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[string, int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a should be cached")
	}
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatal("b should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("a = %v, %v", v, ok)
	}
	if c.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", c.Size())
	}
}

func TestLRUCache_Expiry(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewLRUCache[int64, string](10, time.Second)
	c.now = clock.now

	c.Set(1, "one")
	c.Set(2, "two")
	clock.advance(500 * time.Millisecond)
	c.Set(3, "three")
	clock.advance(600 * time.Millisecond)

	if _, ok := c.Get(1); ok {
		t.Fatal("1 should have expired")
	}
	if n := c.CleanExpired(); n != 1 {
		t.Fatalf("CleanExpired() = %d, want 1", n)
	}
	if v, ok := c.Get(3); !ok || v != "three" {
		t.Fatalf("3 = %q, %v", v, ok)
	}
}

func TestManager_CleanExpired(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	a := NewLRUCache[string, int](10, time.Second)
	a.now = clock.now
	a.Set("x", 1)
	b := NewLRUCache[string, int](10, time.Second)
	b.now = clock.now
	b.Set("y", 2)
	clock.advance(2 * time.Second)

	m := NewManager(a)
	m.Register(b)
	if n := m.CleanExpired(); n != 2 {
		t.Fatalf("CleanExpired() = %d, want 2", n)
	}
}

func TestManager_RunStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewManager().Run(ctx, time.Millisecond) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestBalanceCache_CachesUntilInvalidated(t *testing.T) {
	var calls atomic.Int32
	balance := decimal.RequireFromString("10.00")
	c := NewBalanceCache(func(context.Context, int64) (decimal.Decimal, error) {
		calls.Add(1)
		return balance, nil
	}, 10, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := c.Get(ctx, 1)
		if err != nil || !got.Equal(balance) {
			t.Fatalf("Get = %v, %v", got, err)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("loads = %d, want 1", calls.Load())
	}

	balance = decimal.RequireFromString("4.50")
	c.Invalidate(1)
	got, err := c.Get(ctx, 1)
	if err != nil || !got.Equal(balance) {
		t.Fatalf("after invalidate Get = %v, %v", got, err)
	}
	if calls.Load() != 2 {
		t.Fatalf("loads = %d, want 2", calls.Load())
	}
}

func TestBalanceCache_CollapsesConcurrentMisses(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	c := NewBalanceCache(func(context.Context, int64) (decimal.Decimal, error) {
		calls.Add(1)
		<-release
		return decimal.NewFromInt(7), nil
	}, 10, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Get(context.Background(), 1); err != nil {
				t.Errorf("Get: %v", err)
			}
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls.Load() != 1 {
		t.Fatalf("loads = %d, want 1", calls.Load())
	}
}

func TestBalanceCache_InvalidateDuringLoadIsNotCached(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	c := NewBalanceCache(func(context.Context, int64) (decimal.Decimal, error) {
		if calls.Add(1) == 1 {
			close(started)
			<-release
			return decimal.NewFromInt(1), nil
		}
		return decimal.NewFromInt(2), nil
	}, 10, time.Minute)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.Get(context.Background(), 1)
	}()
	<-started
	c.Invalidate(1)
	close(release)
	<-done

	got, err := c.Get(context.Background(), 1)
	if err != nil || !got.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("Get = %v, %v, want fresh balance 2", got, err)
	}
}

func TestBalanceCache_ErrorsAreNotCached(t *testing.T) {
	var calls atomic.Int32
	c := NewBalanceCache(func(context.Context, int64) (decimal.Decimal, error) {
		calls.Add(1)
		return decimal.Zero, errors.New("store down")
	}, 10, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := c.Get(context.Background(), 1); err == nil {
			t.Fatal("expected error")
		}
	}
	if calls.Load() != 2 {
		t.Fatalf("loads = %d, want 2", calls.Load())
	}
}

func TestBalanceCache_ZeroTTLDisablesCaching(t *testing.T) {
	var calls atomic.Int32
	c := NewBalanceCache(func(context.Context, int64) (decimal.Decimal, error) {
		calls.Add(1)
		return decimal.Zero, nil
	}, 10, 0)

	_, _ = c.Get(context.Background(), 1)
	_, _ = c.Get(context.Background(), 1)
	c.Invalidate(1)
	if calls.Load() != 2 {
		t.Fatalf("loads = %d, want 2", calls.Load())
	}
	if c.CleanExpired() != 0 {
		t.Fatal("nothing to clean")
	}
}
