package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	return client, func() {
		client.Close()
		mr.Close()
	}
}

func setupTestRedisWithServer(t *testing.T) (*redis.Client, *miniredis.Miniredis, func()) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	return client, mr, func() {
		client.Close()
		mr.Close()
	}
}

func TestNewLock(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	lock := NewLock(client)
	if lock == nil {
		t.Fatal("expected non-nil lock")
	}
	if lock.ownerID == "" {
		t.Error("expected non-empty owner ID")
	}
}

func TestLock_OwnerID_Unique(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	lock1 := NewLock(client)
	lock2 := NewLock(client)

	if lock1.OwnerID() == lock2.OwnerID() {
		t.Errorf("expected unique owner IDs, got same: %s", lock1.OwnerID())
	}
}

func TestLock_Acquire_Success(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	lock := NewLock(client)
	ctx := context.Background()

	acquired, err := lock.Acquire(ctx, "ingest:user-1:file-1", 10*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !acquired {
		t.Error("expected to acquire lock")
	}
}

func TestLock_Acquire_AlreadyHeld(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	lock1 := NewLock(client)
	lock2 := NewLock(client)
	ctx := context.Background()

	if acquired, _ := lock1.Acquire(ctx, "contended", 10*time.Second); !acquired {
		t.Fatal("first acquisition should succeed")
	}
	acquired, err := lock2.Acquire(ctx, "contended", 10*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if acquired {
		t.Error("second acquisition should fail while the lock is held")
	}
}

func TestLock_Release(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	lock1 := NewLock(client)
	lock2 := NewLock(client)
	ctx := context.Background()

	_, _ = lock1.Acquire(ctx, "handover", 10*time.Second)
	if err := lock1.Release(ctx, "handover"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	acquired, err := lock2.Acquire(ctx, "handover", 10*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !acquired {
		t.Error("lock should be acquirable after release")
	}
}

func TestLock_Release_NotOwner(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	lock1 := NewLock(client)
	lock2 := NewLock(client)
	ctx := context.Background()

	_, _ = lock1.Acquire(ctx, "protected", 10*time.Second)

	// Releasing someone else's lock is a no-op, not an error.
	if err := lock2.Release(ctx, "protected"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	acquired, _ := lock2.Acquire(ctx, "protected", 10*time.Second)
	if acquired {
		t.Error("foreign release must not free the lock")
	}
}

func TestLock_TTLExpiry(t *testing.T) {
	client, mr, cleanup := setupTestRedisWithServer(t)
	defer cleanup()

	lock1 := NewLock(client)
	lock2 := NewLock(client)
	ctx := context.Background()

	_, _ = lock1.Acquire(ctx, "expiring", 5*time.Second)
	mr.FastForward(6 * time.Second)

	acquired, err := lock2.Acquire(ctx, "expiring", 5*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !acquired {
		t.Error("lock should be acquirable after TTL expiry")
	}
}

func TestLock_Ping(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	lock := NewLock(client)
	if err := lock.Ping(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
