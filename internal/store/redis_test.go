package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func newTestRedisKV(t *testing.T) *RedisKV {
	t.Helper()
	srv := miniredis.RunT(t)

	kv, err := NewRedisKV("redis://"+srv.Addr(), "test:")
	if err != nil {
		t.Fatalf("NewRedisKV returned error: %v", err)
	}
	t.Cleanup(func() { kv.Close() })
	return kv
}

func TestRedisKVRoundTrip(t *testing.T) {
	kv := newTestRedisKV(t)
	ctx := context.Background()

	if err := kv.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := kv.Get(ctx, "k")
	if err != nil || !ok || v != "v" {
		t.Errorf("Get = %q/%v/%v, want v", v, ok, err)
	}
}

func TestRedisKVMissingKey(t *testing.T) {
	kv := newTestRedisKV(t)

	_, ok, err := kv.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if ok {
		t.Errorf("Expected absent key")
	}
}

func TestRedisKVDelete(t *testing.T) {
	kv := newTestRedisKV(t)
	ctx := context.Background()

	if err := kv.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := kv.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := kv.Get(ctx, "k"); ok {
		t.Errorf("Expected key gone after delete")
	}
}

func TestRedisKVKeysArePrefixed(t *testing.T) {
	srv := miniredis.RunT(t)
	kv, err := NewRedisKV("redis://"+srv.Addr(), "memodeck:")
	if err != nil {
		t.Fatalf("NewRedisKV: %v", err)
	}
	defer kv.Close()

	if err := kv.Set(context.Background(), "session", "{}"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !srv.Exists("memodeck:session") {
		t.Errorf("Expected prefixed key memodeck:session in Redis")
	}
}

func TestRedisKVBadURL(t *testing.T) {
	if _, err := NewRedisKV("not-a-url", ""); err == nil {
		t.Errorf("Expected error for malformed URL")
	}
}
