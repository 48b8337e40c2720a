package tokenstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client), mr
}

func TestSaveAndResolve(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	userID := uuid.New()

	if err := store.Save(ctx, "hash-a", userID, time.Hour); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Resolve(ctx, "hash-a")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != userID {
		t.Fatalf("Resolve returned %s, want %s", got, userID)
	}
}

func TestResolveUnknownToken(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Resolve(context.Background(), "never-saved")
	if err != ErrTokenNotFound {
		t.Fatalf("Resolve error = %v, want ErrTokenNotFound", err)
	}
}

func TestResolveExpiredToken(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "hash-b", uuid.New(), time.Minute); err != nil {
		t.Fatalf("Save: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	_, err := store.Resolve(ctx, "hash-b")
	if err != ErrTokenNotFound {
		t.Fatalf("Resolve error = %v, want ErrTokenNotFound", err)
	}
}

func TestRevoke(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "hash-c", uuid.New(), time.Hour); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Revoke(ctx, "hash-c"); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	_, err := store.Resolve(ctx, "hash-c")
	if err != ErrTokenNotFound {
		t.Fatalf("Resolve after revoke = %v, want ErrTokenNotFound", err)
	}
}

func TestRevokeUnknownTokenIsNoop(t *testing.T) {
	store, _ := newTestStore(t)

	if err := store.Revoke(context.Background(), "never-saved"); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
}

func TestRevokeAll(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	userID := uuid.New()
	other := uuid.New()

	for _, hash := range []string{"hash-1", "hash-2", "hash-3"} {
		if err := store.Save(ctx, hash, userID, time.Hour); err != nil {
			t.Fatalf("Save %s: %v", hash, err)
		}
	}
	if err := store.Save(ctx, "hash-other", other, time.Hour); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := store.RevokeAll(ctx, userID); err != nil {
		t.Fatalf("RevokeAll: %v", err)
	}

	for _, hash := range []string{"hash-1", "hash-2", "hash-3"} {
		if _, err := store.Resolve(ctx, hash); err != ErrTokenNotFound {
			t.Fatalf("Resolve %s after RevokeAll = %v, want ErrTokenNotFound", hash, err)
		}
	}

	if got, err := store.Resolve(ctx, "hash-other"); err != nil || got != other {
		t.Fatalf("Resolve other user token = (%s, %v), want (%s, nil)", got, err, other)
	}
}
