package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Brunux-hub/Cafe-eria.hub/internal/config"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/domain"
)

func testConfig() config.SessionConfig {
	return config.SessionConfig{
		KeyPrefix:       "cafeteria",
		TTLHours:        24,
		AttributeTTLMin: 60,
	}
}

func TestStoreTokenAndIsValid(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(NewMemoryStore(), testConfig())

	if err := r.StoreToken(ctx, "Alice@Example.com", "token-1"); err != nil {
		t.Fatalf("StoreToken: %v", err)
	}

	ok, err := r.IsValid(ctx, "alice@example.com", "token-1")
	if err != nil {
		t.Fatalf("IsValid: %v", err)
	}
	if !ok {
		t.Fatal("expected stored token to validate")
	}

	ok, err = r.IsValid(ctx, "alice@example.com", "token-other")
	if err != nil {
		t.Fatalf("IsValid: %v", err)
	}
	if ok {
		t.Fatal("expected mismatched token to fail validation")
	}
}

func TestStoreTokenOverwrites(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(NewMemoryStore(), testConfig())

	if err := r.StoreToken(ctx, "alice@example.com", "token-1"); err != nil {
		t.Fatalf("StoreToken: %v", err)
	}
	if err := r.StoreToken(ctx, "alice@example.com", "token-2"); err != nil {
		t.Fatalf("StoreToken: %v", err)
	}

	if ok, _ := r.IsValid(ctx, "alice@example.com", "token-1"); ok {
		t.Fatal("superseded token must stop validating")
	}
	if ok, _ := r.IsValid(ctx, "alice@example.com", "token-2"); !ok {
		t.Fatal("latest token must validate")
	}

	count, err := r.CountActive(ctx)
	if err != nil {
		t.Fatalf("CountActive: %v", err)
	}
	if count != 1 {
		t.Fatalf("re-login must not grow the active set, got %d", count)
	}
}

func TestInvalidate(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(NewMemoryStore(), testConfig())

	if err := r.StoreToken(ctx, "alice@example.com", "token-1"); err != nil {
		t.Fatalf("StoreToken: %v", err)
	}
	if err := r.Invalidate(ctx, "alice@example.com"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}

	if ok, _ := r.IsValid(ctx, "alice@example.com", "token-1"); ok {
		t.Fatal("invalidated token must not validate")
	}
	if count, _ := r.CountActive(ctx); count != 0 {
		t.Fatalf("expected empty active set, got %d", count)
	}

	// Invalidating an absent subject is a silent no-op.
	if err := r.Invalidate(ctx, "nobody@example.com"); err != nil {
		t.Fatalf("Invalidate absent subject: %v", err)
	}
}

func TestActiveSetMatchesMembers(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(NewMemoryStore(), testConfig())

	for _, subject := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		if err := r.StoreToken(ctx, subject, "tok-"+subject); err != nil {
			t.Fatalf("StoreToken %s: %v", subject, err)
		}
	}
	if err := r.Invalidate(ctx, "b@example.com"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}

	members, err := r.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	count, err := r.CountActive(ctx)
	if err != nil {
		t.Fatalf("CountActive: %v", err)
	}
	if int64(len(members)) != count {
		t.Fatalf("count %d disagrees with %d members", count, len(members))
	}
	for _, member := range members {
		if member == "b@example.com" {
			t.Fatal("invalidated subject still listed active")
		}
	}
}

func TestTokenExpiryLeavesActiveSet(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	store := NewMemoryStoreWithClock(func() time.Time { return now })
	r := NewRegistry(store, testConfig())

	if err := r.StoreToken(ctx, "alice@example.com", "token-1"); err != nil {
		t.Fatalf("StoreToken: %v", err)
	}

	now = now.Add(25 * time.Hour)

	if ok, _ := r.IsValid(ctx, "alice@example.com", "token-1"); ok {
		t.Fatal("token must lapse after its TTL")
	}
	// The active set is only maintained on explicit calls, so the subject
	// lingers until the next Invalidate.
	if count, _ := r.CountActive(ctx); count != 1 {
		t.Fatalf("expected lapsed subject to linger in active set, got %d", count)
	}
}

func TestRenewExtendsTTL(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	store := NewMemoryStoreWithClock(func() time.Time { return now })
	r := NewRegistry(store, testConfig())

	if err := r.StoreToken(ctx, "alice@example.com", "token-1"); err != nil {
		t.Fatalf("StoreToken: %v", err)
	}

	now = now.Add(23 * time.Hour)
	if err := r.Renew(ctx, "alice@example.com"); err != nil {
		t.Fatalf("Renew: %v", err)
	}

	now = now.Add(23 * time.Hour)
	if ok, _ := r.IsValid(ctx, "alice@example.com", "token-1"); !ok {
		t.Fatal("renewed token must still validate inside the new window")
	}

	now = now.Add(2 * time.Hour)
	if ok, _ := r.IsValid(ctx, "alice@example.com", "token-1"); ok {
		t.Fatal("renewed token must lapse after the new window")
	}
}

func TestSessionAttributes(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(NewMemoryStore(), testConfig())

	if err := r.StoreAttribute(ctx, "alice@example.com", "role", "ADMIN"); err != nil {
		t.Fatalf("StoreAttribute: %v", err)
	}

	value, ok, err := r.GetAttribute(ctx, "alice@example.com", "role")
	if err != nil {
		t.Fatalf("GetAttribute: %v", err)
	}
	if !ok || value != "ADMIN" {
		t.Fatalf("expected role ADMIN, got %q (ok=%v)", value, ok)
	}

	_, ok, err = r.GetAttribute(ctx, "alice@example.com", "missing")
	if err != nil {
		t.Fatalf("GetAttribute: %v", err)
	}
	if ok {
		t.Fatal("absent attribute must report ok=false")
	}
}

type failingStore struct {
	Store
}

func (failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("connection refused")
}

func (failingStore) SCard(context.Context, string) (int64, error) {
	return 0, errors.New("connection refused")
}

func TestStoreFailureIsFailClosed(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(failingStore{Store: NewMemoryStore()}, testConfig())

	_, err := r.IsValid(ctx, "alice@example.com", "token-1")
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}

	_, err = r.CountActive(ctx)
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}
