package images

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gophgallery/internal/server/models"
	"github.com/dmitrijs2005/gophgallery/internal/shared"
)

// MemoryRepository keeps image metadata in process memory, in insertion order.
type MemoryRepository struct {
	mu    sync.RWMutex
	items []models.Image
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) indexOf(owner, fileName string) int {
	for i, img := range r.items {
		if img.Owner == owner && img.FileName == fileName {
			return i
		}
	}
	return -1
}

func (r *MemoryRepository) Create(ctx context.Context, img *models.Image) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(img.Owner, img.FileName) >= 0 {
		return shared.ErrorAlreadyExists
	}
	r.items = append(r.items, *img)
	return nil
}

func (r *MemoryRepository) ListByOwner(ctx context.Context, owner string) ([]models.Image, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.Image, 0)
	for _, img := range r.items {
		if img.Owner == owner {
			result = append(result, img)
		}
	}
	return result, nil
}

func (r *MemoryRepository) Get(ctx context.Context, owner, fileName string) (*models.Image, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(owner, fileName)
	if i < 0 {
		return nil, shared.ErrorNotFound
	}
	img := r.items[i]
	return &img, nil
}

func (r *MemoryRepository) SetThumbnail(ctx context.Context, owner, fileName string, status models.ThumbnailStatus, size int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(owner, fileName)
	if i < 0 {
		return shared.ErrorNotFound
	}
	r.items[i].ThumbnailStatus = status
	r.items[i].FileSize = size
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, owner, fileName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(owner, fileName)
	if i < 0 {
		return shared.ErrorNotFound
	}
	r.items = append(r.items[:i], r.items[i+1:]...)
	return nil
}
