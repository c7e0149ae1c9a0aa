// Package repomanager vends the backend's repositories from one storage
// backend: PostgreSQL (pgx, migrated with goose) or process memory.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophgallery/internal/server/repositories/images"
	"github.com/dmitrijs2005/gophgallery/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	Images() images.Repository
	Close() error
}

// New picks PostgreSQL when dsn is set and memory otherwise. Migrations are
// applied before returning.
func New(ctx context.Context, dsn string) (RepositoryManager, error) {
	var (
		m   RepositoryManager
		err error
	)
	if dsn == "" {
		m = NewMemoryRepositoryManager()
	} else {
		m, err = NewPostgresRepositoryManager(ctx, dsn)
		if err != nil {
			return nil, err
		}
	}

	if err := m.RunMigrations(ctx); err != nil {
		_ = m.Close()
		return nil, err
	}
	return m, nil
}
