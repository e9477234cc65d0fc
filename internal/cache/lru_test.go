package cache

import (
	"testing"
	"time"
)

func TestLRUCacheEviction(t *testing.T) {
	c := NewLRUCache[string](3, time.Hour)

	c.Set("key1", "value1")
	c.Set("key2", "value2")
	c.Set("key3", "value3")
	c.Set("key4", "value4") // evicts key1

	if _, found := c.Get("key1"); found {
		t.Error("key1 should have been evicted")
	}
	for _, key := range []string{"key2", "key3", "key4"} {
		if _, found := c.Get(key); !found {
			t.Errorf("%s should still exist", key)
		}
	}
	if got := c.Size(); got != 3 {
		t.Errorf("Size() = %d, want 3", got)
	}
}

func TestLRUCacheRecentUseSurvivesEviction(t *testing.T) {
	c := NewLRUCache[int](2, time.Hour)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")      // a becomes most recently used
	c.Set("c", 3)   // evicts b, not a

	if _, found := c.Get("b"); found {
		t.Error("b should have been evicted")
	}
	if v, found := c.Get("a"); !found || v != 1 {
		t.Errorf("a = %d, %v; want 1, true", v, found)
	}
}

func TestLRUCacheTTLExpiration(t *testing.T) {
	c := NewLRUCache[string](100, 50*time.Millisecond)

	c.Set("key1", "value1")
	if _, found := c.Get("key1"); !found {
		t.Error("key1 should exist immediately")
	}

	time.Sleep(60 * time.Millisecond)

	if _, found := c.Get("key1"); found {
		t.Error("key1 should have expired")
	}
}

func TestLRUCacheCleanExpired(t *testing.T) {
	c := NewLRUCache[string](100, 30*time.Millisecond)

	c.Set("key1", "value1")
	c.Set("key2", "value2")
	time.Sleep(40 * time.Millisecond)
	c.Set("key3", "value3")

	if removed := c.CleanExpired(); removed != 2 {
		t.Errorf("CleanExpired() = %d, want 2", removed)
	}
	if _, found := c.Get("key3"); !found {
		t.Error("key3 should survive cleanup")
	}
}

func TestLRUCacheDeleteAndPurge(t *testing.T) {
	c := NewLRUCache[string](10, time.Hour)

	c.Set("key1", "value1")
	c.Set("key2", "value2")

	c.Delete("key1")
	if _, found := c.Get("key1"); found {
		t.Error("key1 should be gone after Delete")
	}

	c.Purge()
	if got := c.Size(); got != 0 {
		t.Errorf("Size() after Purge = %d, want 0", got)
	}
	if _, found := c.Get("key2"); found {
		t.Error("key2 should be gone after Purge")
	}
}
