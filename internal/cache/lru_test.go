package cache

import (
	"testing"
	"time"
)

func TestLRUBasicOperations(t *testing.T) {
	c := NewLRU[string](2, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.Set("a", "1")
	c.Set("b", "2")
	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Fatalf("expected hit for a, got %q ok=%v", v, ok)
	}

	// "a" was just used, so adding "c" evicts "b".
	c.Set("c", "3")
	if _, ok := c.Get("b"); ok {
		t.Fatal("expected b to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected a to survive eviction")
	}
	if c.Size() != 2 {
		t.Fatalf("expected size 2, got %d", c.Size())
	}
}

func TestLRUExpiry(t *testing.T) {
	c := NewLRU[int](10, 10*time.Millisecond)

	c.Set("k", 42)
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Fatal("expected expired entry to miss")
	}

	c.Set("fresh", 1)
	c.Set("stale", 2)
	time.Sleep(20 * time.Millisecond)
	c.Set("newer", 3)

	if removed := c.CleanExpired(); removed != 2 {
		t.Fatalf("expected 2 expired entries removed, got %d", removed)
	}
	if c.Size() != 1 {
		t.Fatalf("expected 1 entry left, got %d", c.Size())
	}
}

func TestLRUDeletePrefix(t *testing.T) {
	c := NewLRU[int](10, time.Minute)

	c.Set("team:2024-6", 1)
	c.Set("team:2024-6:u1", 2)
	c.Set("team:2024-7", 3)
	c.Set("self:2024-6", 4)

	if removed := c.DeletePrefix("team:2024-6"); removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	if _, ok := c.Get("team:2024-7"); !ok {
		t.Fatal("unrelated month should survive")
	}
	if _, ok := c.Get("self:2024-6"); !ok {
		t.Fatal("different prefix should survive")
	}
}

func TestManagerCleanup(t *testing.T) {
	c := NewLRU[int](10, 5*time.Millisecond)
	m := NewManager()
	m.Register(c)

	c.Set("k", 1)
	m.StartCleanup(10 * time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	m.Stop()

	if c.Size() != 0 {
		t.Fatalf("expected cleanup to remove expired entry, size=%d", c.Size())
	}
}
