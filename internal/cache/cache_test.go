package cache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/cache"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/redisclient"
)

type payload struct {
	Items []string `json:"items"`
}

func exerciseStore(t *testing.T, s cache.Store) {
	t.Helper()
	ctx := context.Background()

	if err := cache.SetJSON(ctx, s, "tt:test:list:user=1:a", payload{Items: []string{"x"}}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := cache.SetJSON(ctx, s, "tt:test:list:user=1:b", payload{Items: []string{"y"}}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := cache.SetJSON(ctx, s, "tt:test:other", payload{}); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got payload
	ok, err := cache.GetJSON(ctx, s, "tt:test:list:user=1:a", &got)
	if err != nil || !ok || len(got.Items) != 1 || got.Items[0] != "x" {
		t.Fatalf("get: ok=%v err=%v got=%+v", ok, err, got)
	}

	if err := s.DeletePrefix(ctx, "tt:test:list:user=1:"); err != nil {
		t.Fatalf("delete prefix: %v", err)
	}

	for _, key := range []string{"tt:test:list:user=1:a", "tt:test:list:user=1:b"} {
		if _, ok, _ := s.Get(ctx, key); ok {
			t.Fatalf("%s survived prefix delete", key)
		}
	}
	if _, ok, _ := s.Get(ctx, "tt:test:other"); !ok {
		t.Fatalf("unrelated key removed")
	}

	if err := s.Delete(ctx, "tt:test:other"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "tt:test:other"); ok {
		t.Fatalf("key survived delete")
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, cache.New(time.Minute))
}

func TestMemoryStoreExpires(t *testing.T) {
	c := cache.New(10 * time.Millisecond)
	ctx := context.Background()

	_ = c.Set(ctx, "k", []byte("v"))
	time.Sleep(25 * time.Millisecond)

	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatalf("expired entry returned")
	}
}

func TestGetJSONCorruptEntryIsMiss(t *testing.T) {
	c := cache.New(time.Minute)
	ctx := context.Background()
	_ = c.Set(ctx, "k", []byte("{not json"))

	var out payload
	ok, err := cache.GetJSON(ctx, c, "k", &out)
	if ok || err != nil {
		t.Fatalf("corrupt entry: ok=%v err=%v", ok, err)
	}
	if _, present, _ := c.Get(ctx, "k"); present {
		t.Fatalf("corrupt entry should be evicted")
	}
}

// Runs only against a real Redis, e.g. REDIS_ADDR=127.0.0.1:6379.
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	client, err := redisclient.New(context.Background(), redisclient.Config{Addr: addr})
	if err != nil {
		t.Skipf("redis not reachable: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	exerciseStore(t, cache.NewRedisStore(client.Raw(), time.Minute))
}
