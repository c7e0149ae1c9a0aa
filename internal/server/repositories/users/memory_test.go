package users

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/gophgallery/internal/server/models"
	"github.com/dmitrijs2005/gophgallery/internal/shared"
)

func TestMemoryRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	u, err := repo.Create(ctx, &models.User{UserName: "alice", PasswordHash: []byte("h")})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if u.ID == "" || u.CreatedAt.IsZero() {
		t.Fatalf("expected id and created_at to be assigned: %+v", u)
	}

	got, err := repo.GetUserByLogin(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUserByLogin error: %v", err)
	}
	if got.ID != u.ID || string(got.PasswordHash) != "h" {
		t.Fatalf("unexpected user: %+v", got)
	}

	if _, err := repo.Create(ctx, &models.User{UserName: "alice"}); !errors.Is(err, shared.ErrorAlreadyExists) {
		t.Fatalf("want shared.ErrorAlreadyExists, got %v", err)
	}
	if _, err := repo.GetUserByLogin(ctx, "ghost"); !errors.Is(err, shared.ErrorNotFound) {
		t.Fatalf("want shared.ErrorNotFound, got %v", err)
	}
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	hash := []byte("hash")
	if _, err := repo.Create(ctx, &models.User{UserName: "bob", PasswordHash: hash}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	hash[0] = 'X'

	got, _ := repo.GetUserByLogin(ctx, "bob")
	got.UserName = "mutated"

	again, _ := repo.GetUserByLogin(ctx, "bob")
	if again.UserName != "bob" || string(again.PasswordHash) != "hash" {
		t.Fatalf("stored user was mutated: %+v", again)
	}
}
