package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
)

func newTestRedisClient(t *testing.T) (*redislib.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{
		Addr: mr.Addr(),
	})

	return client, mr
}

func TestReportCacheSetAndGet(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewReportCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "tb:user-1:2025-03:", []byte(`{"total":"1"}`), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	value, err := cache.Get(ctx, "tb:user-1:2025-03:")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(value) != `{"total":"1"}` {
		t.Fatalf("unexpected value %q", value)
	}
}

func TestReportCacheMissIsNil(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewReportCache(client)

	value, err := cache.Get(context.Background(), "tb:user-1:2099-01:")
	if err != nil {
		t.Fatalf("miss returned error: %v", err)
	}
	if value != nil {
		t.Fatalf("miss returned value %q", value)
	}
}

func TestReportCacheInvalidateUser(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewReportCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "tb:user-1:2025-03:", []byte("a"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := cache.Set(ctx, "tb:user-1:2025-04:USD", []byte("b"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := cache.Set(ctx, "tb:user-2:2025-03:", []byte("c"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if err := cache.InvalidateUser(ctx, "user-1"); err != nil {
		t.Fatalf("invalidate failed: %v", err)
	}

	if value, _ := cache.Get(ctx, "tb:user-1:2025-03:"); value != nil {
		t.Fatalf("user-1 report survived invalidation")
	}
	if value, _ := cache.Get(ctx, "tb:user-1:2025-04:USD"); value != nil {
		t.Fatalf("user-1 currency report survived invalidation")
	}
	if value, _ := cache.Get(ctx, "tb:user-2:2025-03:"); value == nil {
		t.Fatalf("user-2 report was wrongly invalidated")
	}
}
