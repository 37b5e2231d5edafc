package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/crateapp/crate-server/internal/store"
)

func TestUserCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := makeTestUser("user-1", "Alice@Example.com")
	u.IsAdmin = true
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	got, err := s.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Email != "Alice@Example.com" || !got.IsAdmin {
		t.Errorf("got %+v", got)
	}

	// Email lookup is case-insensitive.
	byEmail, err := s.GetUserByEmail(ctx, "alice@example.COM")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if byEmail.ID != "user-1" {
		t.Errorf("by email: got %q", byEmail.ID)
	}

	got.Name = "Alice"
	got.Touch()
	if err := s.UpdateUser(ctx, got); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	n, err := s.CountUsers(ctx)
	if err != nil {
		t.Fatalf("CountUsers: %v", err)
	}
	if n != 1 {
		t.Errorf("CountUsers: got %d", n)
	}

	if err := s.DeleteUser(ctx, "user-1"); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, err := s.GetUser(ctx, "user-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreate(t, s.CreateUser(ctx, makeTestUser("user-1", "same@example.com")))

	dup := makeTestUser("user-2", "SAME@example.com")
	if err := s.CreateUser(ctx, dup); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestDeleteUserCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreate(t, s.CreateUser(ctx, makeTestUser("user-1", "owner@example.com")))
	mustCreate(t, s.CreateList(ctx, makeTestList("list-1", "Mine", "user-1")))

	if err := s.DeleteUser(ctx, "user-1"); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, err := s.GetList(ctx, "list-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("owned list should cascade, got %v", err)
	}
}
