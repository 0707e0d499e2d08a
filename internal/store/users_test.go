package store_test

import (
	"context"
	"errors"
	"testing"

	"copysmith/internal/store"
	"copysmith/internal/testutil"
)

func newUserStore(t *testing.T) *store.UserStore {
	t.Helper()
	return store.NewUserStore(testutil.NewTestDB(t))
}

func TestUserStore_Upsert(t *testing.T) {
	us := newUserStore(t)
	ctx := context.Background()

	u, err := us.Upsert(ctx, "https://issuer.example.com", "sub1", "user@example.com", "Test User", "")
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if u.ID == "" {
		t.Error("expected non-empty ID")
	}
	if u.Role != "user" {
		t.Errorf("Role = %q, want %q", u.Role, "user")
	}

	// Upserting the same provider/subject updates profile fields but keeps
	// the identity.
	u2, err := us.Upsert(ctx, "https://issuer.example.com", "sub1", "user@example.com", "Renamed User", "")
	if err != nil {
		t.Fatalf("Upsert again: %v", err)
	}
	if u2.ID != u.ID {
		t.Errorf("ID changed on upsert: %q != %q", u2.ID, u.ID)
	}
	if u2.DisplayName != "Renamed User" {
		t.Errorf("DisplayName = %q, want %q", u2.DisplayName, "Renamed User")
	}
}

func TestUserStore_Upsert_AdminEmail(t *testing.T) {
	us := newUserStore(t)
	ctx := context.Background()

	u, err := us.Upsert(ctx, "https://issuer.example.com", "sub1", "boss@example.com", "Boss", "boss@example.com")
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if !u.IsAdmin() {
		t.Errorf("Role = %q, want admin", u.Role)
	}
}

func TestUserStore_GetByID_NotFound(t *testing.T) {
	us := newUserStore(t)

	_, err := us.GetByID(context.Background(), "nonexistent")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetByID(nonexistent) = %v, want ErrNotFound", err)
	}
}

func TestUserStore_GetByEmail(t *testing.T) {
	us := newUserStore(t)
	ctx := context.Background()

	u, err := us.Upsert(ctx, "https://issuer.example.com", "sub1", "user@example.com", "Test User", "")
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := us.GetByEmail(ctx, "user@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("ID = %q, want %q", got.ID, u.ID)
	}

	if _, err := us.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetByEmail(nobody) = %v, want ErrNotFound", err)
	}
}
