package cache

import (
	"context"
	"testing"
)

func TestMemoryRouteCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryRouteCache()

	if _, ok, err := c.Get(ctx, "table:1,1;2,2:"); err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	if err := c.Set(ctx, "table:1,1;2,2:", []byte(`{"code":"Ok"}`)); err != nil {
		t.Fatalf("set: %v", err)
	}

	v, ok, err := c.Get(ctx, "table:1,1;2,2:")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if string(v) != `{"code":"Ok"}` {
		t.Fatalf("unexpected payload %q", v)
	}

	// Mutating the returned slice must not corrupt the cached entry.
	v[0] = 'X'
	v2, _, _ := c.Get(ctx, "table:1,1;2,2:")
	if string(v2) != `{"code":"Ok"}` {
		t.Fatalf("cached payload was mutated through the returned slice: %q", v2)
	}

	if c.Hits() != 2 || c.Misses() != 1 {
		t.Fatalf("expected hits=2 misses=1, got hits=%d misses=%d", c.Hits(), c.Misses())
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("expected empty cache after clear, got %d entries", c.Len())
	}
	if _, ok, _ := c.Get(ctx, "table:1,1;2,2:"); ok {
		t.Fatal("expected miss after clear")
	}
}

func TestMemoryRouteCacheOverwrite(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryRouteCache()

	if err := c.Set(ctx, "k", []byte("old")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.Set(ctx, "k", []byte("new")); err != nil {
		t.Fatalf("set: %v", err)
	}

	v, ok, _ := c.Get(ctx, "k")
	if !ok || string(v) != "new" {
		t.Fatalf("expected overwritten value, got ok=%v v=%q", ok, v)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", c.Len())
	}
}
