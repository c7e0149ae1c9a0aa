package images

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/gophgallery/internal/server/models"
	"github.com/dmitrijs2005/gophgallery/internal/shared"
)

func TestMemoryRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	for _, img := range []models.Image{
		{FileName: "a", Owner: "alice", ThumbnailStatus: models.ThumbnailPending},
		{FileName: "b", Owner: "bob", ThumbnailStatus: models.ThumbnailPending},
		{FileName: "c", Owner: "alice", ThumbnailStatus: models.ThumbnailPending},
	} {
		img := img
		if err := repo.Create(ctx, &img); err != nil {
			t.Fatalf("Create error: %v", err)
		}
	}
	if err := repo.Create(ctx, &models.Image{FileName: "a", Owner: "alice"}); !errors.Is(err, shared.ErrorAlreadyExists) {
		t.Fatalf("want shared.ErrorAlreadyExists, got %v", err)
	}

	list, _ := repo.ListByOwner(ctx, "alice")
	if len(list) != 2 || list[0].FileName != "a" || list[1].FileName != "c" {
		t.Fatalf("unexpected list: %+v", list)
	}

	if _, err := repo.Get(ctx, "bob", "a"); !errors.Is(err, shared.ErrorNotFound) {
		t.Fatalf("other owner's image must not be visible, got %v", err)
	}

	if err := repo.SetThumbnail(ctx, "alice", "a", models.ThumbnailCompleted, 42); err != nil {
		t.Fatalf("SetThumbnail error: %v", err)
	}
	got, _ := repo.Get(ctx, "alice", "a")
	if got.ThumbnailStatus != models.ThumbnailCompleted || got.FileSize != 42 {
		t.Fatalf("thumbnail not recorded: %+v", got)
	}

	if err := repo.Delete(ctx, "alice", "a"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if err := repo.Delete(ctx, "alice", "a"); !errors.Is(err, shared.ErrorNotFound) {
		t.Fatalf("want shared.ErrorNotFound, got %v", err)
	}
	if err := repo.SetThumbnail(ctx, "alice", "a", models.ThumbnailCompleted, 1); !errors.Is(err, shared.ErrorNotFound) {
		t.Fatalf("want shared.ErrorNotFound, got %v", err)
	}

	list, _ = repo.ListByOwner(ctx, "alice")
	if len(list) != 1 || list[0].FileName != "c" {
		t.Fatalf("unexpected list after delete: %+v", list)
	}
	empty, _ := repo.ListByOwner(ctx, "nobody")
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", empty)
	}
}
