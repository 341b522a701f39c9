package cache

import (
	"context"
	"reflect"
	"testing"
	"time"

	"budgetapp/internal/log"
)

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[int](2, 0)
	c.Set("a", 1)
	c.Set("b", 2)
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("a should be cached")
	}
	c.Set("c", 3) // evicts b

	if _, ok := c.Get("b"); ok {
		t.Fatalf("b should have been evicted")
	}
	if got := c.Keys(); !reflect.DeepEqual(got, []string{"c", "a"}) {
		t.Fatalf("unexpected order %v", got)
	}
	c.Set("a", 10)
	if v, _ := c.Get("a"); v != 10 || c.Size() != 2 {
		t.Fatalf("overwrite failed: %v size=%d", v, c.Size())
	}
}

func TestLRUTTL(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewLRUCache[string](10, time.Minute)
	c.now = func() time.Time { return now }

	c.Set("k", "v")
	c.Set("j", "w")
	now = now.Add(30 * time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Fatalf("entry expired too early")
	}
	now = now.Add(31 * time.Second)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("entry should have expired")
	}
	if n := c.CleanExpired(); n != 1 || c.Size() != 0 {
		t.Fatalf("expected one expired entry cleaned, got %d size=%d", n, c.Size())
	}
}

func TestLRUZeroTTLNeverExpires(t *testing.T) {
	c := NewLRUCache[string](0, 0)
	c.now = func() time.Time { return time.Now().Add(1000 * time.Hour) }
	c.Set("k", "v")
	if n := c.CleanExpired(); n != 0 {
		t.Fatalf("zero ttl entries must not expire")
	}
	c.Purge()
	if c.Size() != 0 || len(c.Keys()) != 0 {
		t.Fatalf("purge left entries behind")
	}
}

func TestManagerCleansRegisteredCaches(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	a := NewLRUCache[int](10, time.Second)
	a.now = func() time.Time { return now }
	a.Set("x", 1)
	now = now.Add(2 * time.Second)

	m := NewManager(log.Discard())
	m.Register(a)
	if n := m.CleanAll(); n != 1 {
		t.Fatalf("expected 1 cleaned, got %d", n)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx, time.Millisecond) }()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("manager did not stop")
	}
}
