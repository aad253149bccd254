package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// fakeCmdable implements the two commands IdempotencyStore issues.
type fakeCmdable struct {
	redis.Cmdable
	keys   map[string]time.Duration
	err    error
	gotKey string
}

func newFake() *fakeCmdable { return &fakeCmdable{keys: map[string]time.Duration{}} }

func (f *fakeCmdable) SetNX(_ context.Context, key string, _ interface{}, ttl time.Duration) *redis.BoolCmd {
	if f.err != nil {
		return redis.NewBoolResult(false, f.err)
	}
	f.gotKey = key
	if _, ok := f.keys[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.keys[key] = ttl
	return redis.NewBoolResult(true, nil)
}

func (f *fakeCmdable) Del(_ context.Context, keys ...string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.keys[k]; ok {
			delete(f.keys, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestIdempotencyStore_ClaimOnce(t *testing.T) {
	fake := newFake()
	store := NewIdempotencyStore(fake, time.Minute)
	ctx := context.Background()

	ok, err := store.Claim(ctx, "alice", "k1")
	if err != nil || !ok {
		t.Fatalf("first Claim() = %v, %v; want true, nil", ok, err)
	}
	if fake.gotKey != "idempotency:send:alice:k1" {
		t.Errorf("key = %q", fake.gotKey)
	}
	if ttl := fake.keys["idempotency:send:alice:k1"]; ttl != time.Minute {
		t.Errorf("ttl = %v, want 1m", ttl)
	}

	ok, err = store.Claim(ctx, "alice", "k1")
	if err != nil || ok {
		t.Fatalf("second Claim() = %v, %v; want false, nil", ok, err)
	}

	// keys are scoped per sender
	ok, _ = store.Claim(ctx, "bob", "k1")
	if !ok {
		t.Error("key leaked across senders")
	}
}

func TestIdempotencyStore_ReleaseAllowsReclaim(t *testing.T) {
	fake := newFake()
	store := NewIdempotencyStore(fake, time.Minute)
	ctx := context.Background()

	if ok, _ := store.Claim(ctx, "alice", "k"); !ok {
		t.Fatal("claim failed")
	}
	if err := store.Release(ctx, "alice", "k"); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if ok, _ := store.Claim(ctx, "alice", "k"); !ok {
		t.Fatal("released key could not be claimed again")
	}
}

func TestIdempotencyStore_DefaultTTL(t *testing.T) {
	fake := newFake()
	store := NewIdempotencyStore(fake, 0)
	if _, err := store.Claim(context.Background(), "alice", "k"); err != nil {
		t.Fatal(err)
	}
	if ttl := fake.keys["idempotency:send:alice:k"]; ttl != defaultIdempotencyTTL {
		t.Errorf("ttl = %v, want %v", ttl, defaultIdempotencyTTL)
	}
}

func TestIdempotencyStore_Errors(t *testing.T) {
	boom := errors.New("connection refused")
	fake := newFake()
	fake.err = boom
	store := NewIdempotencyStore(fake, time.Minute)

	if _, err := store.Claim(context.Background(), "alice", "k"); !errors.Is(err, boom) {
		t.Errorf("Claim() error = %v, want wrapped %v", err, boom)
	}
	if err := store.Release(context.Background(), "alice", "k"); !errors.Is(err, boom) {
		t.Errorf("Release() error = %v, want wrapped %v", err, boom)
	}
}
