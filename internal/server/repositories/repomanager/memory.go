package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophgallery/internal/server/repositories/images"
	"github.com/dmitrijs2005/gophgallery/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps everything in process memory; data is lost
// on restart.
type MemoryRepositoryManager struct {
	users  *users.MemoryRepository
	images *images.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:  users.NewMemoryRepository(),
		images: images.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Users() users.Repository { return m.users }

func (m *MemoryRepositoryManager) Images() images.Repository { return m.images }

func (m *MemoryRepositoryManager) Close() error { return nil }
