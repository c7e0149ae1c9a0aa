package images

import (
	"context"

	"github.com/dmitrijs2005/gophgallery/internal/server/models"
)

// Repository stores image metadata. Lookups are always scoped to an owner;
// another user's image is reported as shared.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, img *models.Image) error
	// ListByOwner returns the owner's images oldest first.
	ListByOwner(ctx context.Context, owner string) ([]models.Image, error)
	Get(ctx context.Context, owner, fileName string) (*models.Image, error)
	SetThumbnail(ctx context.Context, owner, fileName string, status models.ThumbnailStatus, size int64) error
	Delete(ctx context.Context, owner, fileName string) error
}
