package devotp

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s := NewMemoryStore()
	s.nowF = func() time.Time { return now }

	if _, ok := s.Get(ctx, "user@x.com"); ok {
		t.Fatal("empty store should miss")
	}

	s.Put(ctx, "user@x.com", "0427", now.Add(15*time.Minute))
	code, ok := s.Get(ctx, "user@x.com")
	if !ok || code != "0427" {
		t.Fatalf("Get = %q, %v", code, ok)
	}

	// A newer code replaces the previous one.
	s.Put(ctx, "user@x.com", "8812", now.Add(15*time.Minute))
	if code, _ := s.Get(ctx, "user@x.com"); code != "8812" {
		t.Errorf("Get after replace = %q, want 8812", code)
	}

	// Expired entries miss and are dropped.
	now = now.Add(15*time.Minute + time.Second)
	if _, ok := s.Get(ctx, "user@x.com"); ok {
		t.Error("expired entry should miss")
	}
}
