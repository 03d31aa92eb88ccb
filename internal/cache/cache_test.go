package cache

import (
	"context"
	"testing"
	"time"
)

// TestMemoryGetSet verifies basic store and retrieve.
func TestMemoryGetSet(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	if _, ok := c.Get(ctx, "missing"); ok {
		t.Error("Get(missing) = hit, want miss")
	}

	c.Set(ctx, "k", "v", 0)
	got, ok := c.Get(ctx, "k")
	if !ok || got != "v" {
		t.Errorf("Get(k) = (%q, %v), want (v, true)", got, ok)
	}
}

// TestMemoryDelete verifies that deleted keys miss.
func TestMemoryDelete(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	c.Set(ctx, "k", "v", 0)
	c.Delete(ctx, "k")
	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("Get after Delete = hit, want miss")
	}
}

// TestMemoryTTL verifies that entries expire after their TTL.
func TestMemoryTTL(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	c.Set(ctx, "k", "v", 10*time.Millisecond)
	if _, ok := c.Get(ctx, "k"); !ok {
		t.Error("Get before expiry = miss, want hit")
	}

	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("Get after expiry = hit, want miss")
	}
}
