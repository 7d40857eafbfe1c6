package cache

import (
	"fmt"
	"testing"
)

func TestFIFOCacheGetSet(t *testing.T) {
	c := NewFIFOCache[int](3)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("Get on empty cache should miss")
	}

	c.Set("a", 1)
	if got, ok := c.Get("a"); !ok || got != 1 {
		t.Fatalf("Get(a) = %d, %v, want 1, true", got, ok)
	}

	c.Set("a", 2)
	if got, _ := c.Get("a"); got != 2 {
		t.Fatalf("Get(a) after overwrite = %d, want 2", got)
	}
	if c.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", c.Size())
	}
}

func TestFIFOCacheEvictsOldestInserted(t *testing.T) {
	c := NewFIFOCache[int](2)
	c.Set("first", 1)
	c.Set("second", 2)

	// Touching the oldest entry must not protect it: eviction is strictly
	// insertion-ordered, not LRU.
	c.Get("first")

	c.Set("third", 3)
	if _, ok := c.Get("first"); ok {
		t.Error("oldest inserted entry should have been evicted")
	}
	if _, ok := c.Get("second"); !ok {
		t.Error("second entry should survive")
	}
	if _, ok := c.Get("third"); !ok {
		t.Error("new entry should be present")
	}
}

func TestFIFOCacheOverwriteKeepsInsertionOrder(t *testing.T) {
	c := NewFIFOCache[int](2)
	c.Set("first", 1)
	c.Set("second", 2)
	c.Set("first", 10) // update, not a new insertion

	c.Set("third", 3)
	if _, ok := c.Get("first"); ok {
		t.Error("overwritten entry should still be evicted first")
	}
}

func TestFIFOCacheClear(t *testing.T) {
	c := NewFIFOCache[string](5)
	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprintf("k%d", i), "v")
	}
	c.Clear()
	if c.Size() != 0 {
		t.Fatalf("Size() after Clear = %d, want 0", c.Size())
	}
	// Cache must still accept inserts after clearing.
	c.Set("k0", "v")
	if _, ok := c.Get("k0"); !ok {
		t.Fatal("Set after Clear should work")
	}
}

func TestFIFOCacheDelete(t *testing.T) {
	c := NewFIFOCache[int](2)
	c.Set("a", 1)
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatal("deleted key should miss")
	}
	c.Delete("a") // deleting a missing key is a no-op
}
