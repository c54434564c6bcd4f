package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	_ Store = (*Cache)(nil)
	_ Store = (*Redis)(nil)
)

func TestCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c := New(true)
	defer c.Close()

	etag := c.Set(ctx, "k", []byte(`{"a":1}`), time.Minute)
	data, got, ok := c.Get(ctx, "k")
	if !ok {
		t.Fatal("expected hit")
	}
	if string(data) != `{"a":1}` || got != etag {
		t.Errorf("got %s %s", data, got)
	}
	if _, _, ok := c.Get(ctx, "missing"); ok {
		t.Error("unexpected hit")
	}
}

func TestCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := New(true)
	defer c.Close()

	now := time.Date(2025, 9, 4, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set(ctx, "k", []byte("v"), TTLOdds)
	now = now.Add(89 * time.Second)
	if _, _, ok := c.Get(ctx, "k"); !ok {
		t.Error("entry expired early")
	}

	now = now.Add(2 * time.Second)
	if _, _, ok := c.Get(ctx, "k"); ok {
		t.Error("entry outlived its ttl")
	}

	stats := c.Stats(ctx)
	if stats["expired_keys"] != 1 || stats["active_keys"] != 0 {
		t.Errorf("stats = %v", stats)
	}
	c.evict()
	if stats := c.Stats(ctx); stats["total_keys"] != 0 {
		t.Errorf("after evict stats = %v", stats)
	}
}

func TestCache_Disabled(t *testing.T) {
	ctx := context.Background()
	c := New(false)
	etag := c.Set(ctx, "k", []byte("v"), time.Minute)
	if etag != ComputeETag([]byte("v")) {
		t.Error("disabled cache should still compute etags")
	}
	if _, _, ok := c.Get(ctx, "k"); ok {
		t.Error("disabled cache returned a hit")
	}
	if c.Stats(ctx)["enabled"] != false {
		t.Error("stats should report disabled")
	}
}

func TestCache_CloseIsIdempotent(t *testing.T) {
	c := New(true)
	c.Close()
	c.Close()
}

func TestETag(t *testing.T) {
	a := ComputeETag([]byte("a"))
	if a == ComputeETag([]byte("b")) {
		t.Error("different data, same etag")
	}
	if a != ComputeETag([]byte("a")) {
		t.Error("etag not deterministic")
	}

	tests := []struct {
		header string
		want   bool
	}{
		{"", false},
		{"*", true},
		{a, true},
		{`W/"other"`, false},
	}
	for _, tt := range tests {
		if got := CheckETagMatch(tt.header, a); got != tt.want {
			t.Errorf("CheckETagMatch(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}

func TestRedis_UnreachableIsAMiss(t *testing.T) {
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	r := NewRedis(client, DefaultPrefix, nil)
	defer r.Close()

	etag := r.Set(ctx, "k", []byte("v"), time.Minute)
	if etag != ComputeETag([]byte("v")) {
		t.Errorf("etag = %s", etag)
	}
	if _, _, ok := r.Get(ctx, "k"); ok {
		t.Error("unreachable redis returned a hit")
	}
	if stats := r.Stats(ctx); stats["status"] != "unreachable" {
		t.Errorf("stats = %v", stats)
	}
}

func TestDialRedis_BadURL(t *testing.T) {
	if _, err := DialRedis(context.Background(), "not-a-url", nil); err == nil {
		t.Error("expected error for malformed url")
	}
}
