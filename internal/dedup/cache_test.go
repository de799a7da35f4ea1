package dedup

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func newTestCache(t *testing.T, ttl time.Duration, capacity int) (*Cache[string], *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	return New[string](Config{TTL: ttl, Capacity: capacity}, WithClock(clock)), clock
}

func TestNew_Defaults(t *testing.T) {
	c := New[string](Config{})
	if c.TTL() != 600*time.Second {
		t.Errorf("TTL() = %v, want %v", c.TTL(), 600*time.Second)
	}
	if c.Capacity() != 10000 {
		t.Errorf("Capacity() = %d, want %d", c.Capacity(), 10000)
	}
}

func TestCache_LookupStore(t *testing.T) {
	c, _ := newTestCache(t, time.Minute, 10)

	if _, ok := c.Lookup("req-1"); ok {
		t.Fatal("Lookup on empty cache should miss")
	}

	c.Store("req-1", "registered")

	got, ok := c.Lookup("req-1")
	if !ok {
		t.Fatal("Lookup after Store should hit")
	}
	if got != "registered" {
		t.Errorf("Lookup() = %q, want %q", got, "registered")
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Stores != 1 || stats.Entries != 1 {
		t.Errorf("Stats() = %+v, want 1 hit, 1 miss, 1 store, 1 entry", stats)
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	c, clock := newTestCache(t, 600*time.Second, 10)

	c.Store("req-1", "registered")

	clock.Advance(599 * time.Second)
	if _, ok := c.Lookup("req-1"); !ok {
		t.Fatal("entry should still be live before TTL")
	}

	clock.Advance(time.Second)
	if _, ok := c.Lookup("req-1"); ok {
		t.Fatal("entry should not be returned once TTL has elapsed")
	}
	if c.Stats().Expirations != 1 {
		t.Errorf("Expirations = %d, want 1", c.Stats().Expirations)
	}
}

func TestCache_LookupDoesNotExtendTTL(t *testing.T) {
	c, clock := newTestCache(t, 10*time.Second, 10)

	c.Store("req-1", "v")
	for i := 0; i < 9; i++ {
		clock.Advance(time.Second)
		if _, ok := c.Lookup("req-1"); !ok {
			t.Fatalf("entry expired early at %ds", i+1)
		}
	}

	clock.Advance(time.Second)
	if _, ok := c.Lookup("req-1"); ok {
		t.Fatal("lookups must not refresh the TTL")
	}
}

func TestCache_StoreRefreshesTTL(t *testing.T) {
	c, clock := newTestCache(t, 10*time.Second, 10)

	c.Store("req-1", "first")
	clock.Advance(8 * time.Second)
	c.Store("req-1", "second")
	clock.Advance(8 * time.Second)

	got, ok := c.Lookup("req-1")
	if !ok {
		t.Fatal("overwrite should restart the TTL")
	}
	if got != "second" {
		t.Errorf("Lookup() = %q, want %q", got, "second")
	}
}

func TestCache_CapacityEvictsOldest(t *testing.T) {
	c, _ := newTestCache(t, time.Hour, 3)

	for i := 1; i <= 4; i++ {
		c.Store(fmt.Sprintf("req-%d", i), fmt.Sprintf("v%d", i))
	}

	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
	if _, ok := c.Lookup("req-1"); ok {
		t.Error("oldest entry should have been evicted")
	}
	for i := 2; i <= 4; i++ {
		if _, ok := c.Lookup(fmt.Sprintf("req-%d", i)); !ok {
			t.Errorf("req-%d should still be cached", i)
		}
	}
	if c.Stats().Evictions != 1 {
		t.Errorf("Evictions = %d, want 1", c.Stats().Evictions)
	}
}

func TestCache_OverwriteMovesToNewest(t *testing.T) {
	c, _ := newTestCache(t, time.Hour, 2)

	c.Store("a", "1")
	c.Store("b", "2")
	c.Store("a", "1b") // a is now the newest insertion
	c.Store("c", "3")  // evicts b

	if _, ok := c.Lookup("b"); ok {
		t.Error("b should have been evicted")
	}
	if got, ok := c.Lookup("a"); !ok || got != "1b" {
		t.Errorf("Lookup(a) = %q, %v; want %q, true", got, ok, "1b")
	}
}

func TestCache_Purge(t *testing.T) {
	c, clock := newTestCache(t, 10*time.Second, 10)

	c.Store("old-1", "v")
	c.Store("old-2", "v")
	clock.Advance(5 * time.Second)
	c.Store("new", "v")
	clock.Advance(5 * time.Second)

	if n := c.Purge(); n != 2 {
		t.Errorf("Purge() = %d, want 2", n)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
	if _, ok := c.Lookup("new"); !ok {
		t.Error("unexpired entry should survive purge")
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c, _ := newTestCache(t, time.Hour, 100)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				id := fmt.Sprintf("req-%d-%d", g, i%50)
				c.Store(id, id)
				if v, ok := c.Lookup(id); ok && v != id {
					t.Errorf("Lookup(%q) = %q", id, v)
				}
			}
		}(g)
	}
	wg.Wait()

	if c.Len() > 100 {
		t.Errorf("Len() = %d exceeds capacity", c.Len())
	}
}
