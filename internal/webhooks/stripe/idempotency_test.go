package stripewebhook

import (
	"context"
	"testing"
	"time"
)

type stubIdempotencyStore struct {
	keys map[string]bool
}

func (s *stubIdempotencyStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if s.keys[key] {
		return false, nil
	}
	s.keys[key] = true
	return true, nil
}

func (s *stubIdempotencyStore) IdempotencyKey(scope, id string) string {
	return scope + ":" + id
}

func (s *stubIdempotencyStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.keys, key)
	}
	return nil
}

func TestIdempotencyGuardMarksAndReleases(t *testing.T) {
	store := &stubIdempotencyStore{keys: map[string]bool{}}
	guard, err := NewIdempotencyGuard(store, time.Hour, "stripe")
	if err != nil {
		t.Fatalf("setup guard: %v", err)
	}

	seen, err := guard.CheckAndMark(context.Background(), "evt_1")
	if err != nil {
		t.Fatalf("first check: %v", err)
	}
	if seen {
		t.Fatalf("fresh event reported as seen")
	}

	seen, err = guard.CheckAndMark(context.Background(), "evt_1")
	if err != nil {
		t.Fatalf("second check: %v", err)
	}
	if !seen {
		t.Fatalf("replay not detected")
	}

	if err := guard.Delete(context.Background(), "evt_1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	seen, err = guard.CheckAndMark(context.Background(), "evt_1")
	if err != nil {
		t.Fatalf("check after delete: %v", err)
	}
	if seen {
		t.Fatalf("released event should be processable again")
	}
}

func TestNewIdempotencyGuardValidatesInputs(t *testing.T) {
	store := &stubIdempotencyStore{keys: map[string]bool{}}
	if _, err := NewIdempotencyGuard(nil, time.Hour, "stripe"); err == nil {
		t.Fatalf("nil store should fail")
	}
	if _, err := NewIdempotencyGuard(store, -time.Hour, "stripe"); err == nil {
		t.Fatalf("negative ttl should fail")
	}
	if _, err := NewIdempotencyGuard(store, time.Hour, ""); err == nil {
		t.Fatalf("empty scope should fail")
	}
}
