// Package session persists the signed-in identity in the local database so it
// survives restarts.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophgallery/internal/client/models"
	"github.com/dmitrijs2005/gophgallery/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophgallery/internal/dbx"
	"github.com/golang-jwt/jwt/v5"
)

const (
	userNameKey = "username"
	tokenKey    = "token"
)

// Store keeps at most one session. User name and token are written and
// removed together, in one transaction.
type Store struct {
	db *sql.DB

	mu      sync.Mutex
	loaded  bool
	current models.Session
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Current returns the stored session and whether there is one. A half-written
// pair (one key without the other) is treated as no session.
func (s *Store) Current(ctx context.Context) (models.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(ctx); err != nil {
		return models.Session{}, false, err
	}
	return s.current, s.current.Valid(), nil
}

func (s *Store) loadLocked(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	values, err := metadata.NewSQLiteRepository(s.db).GetMany(ctx, userNameKey, tokenKey)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	sess := models.Session{UserName: string(values[userNameKey]), Token: string(values[tokenKey])}
	if !sess.Valid() {
		sess = models.Session{}
	}
	s.current = sess
	s.loaded = true
	return nil
}

// Set replaces the stored session.
func (s *Store) Set(ctx context.Context, sess models.Session) error {
	if !sess.Valid() {
		return fmt.Errorf("session needs both user name and token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, userNameKey, []byte(sess.UserName)); err != nil {
			return err
		}
		return repo.Set(ctx, tokenKey, []byte(sess.Token))
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.current = sess
	s.loaded = true
	return nil
}

// Clear removes the stored session. Clearing an empty store is a no-op.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearLocked(ctx)
}

// ClearIf removes the stored session only while it still carries token, and
// reports whether it did. Callers racing on the same stale token see true
// exactly once. A failed write still drops the cached session, so the result
// is true together with the error.
func (s *Store) ClearIf(ctx context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(ctx); err != nil {
		return false, err
	}
	if !s.current.Valid() || s.current.Token != token {
		return false, nil
	}
	return true, s.clearLocked(ctx)
}

// clearLocked forgets the cached session before touching the database.
func (s *Store) clearLocked(ctx context.Context) error {
	s.current = models.Session{}
	s.loaded = true

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return metadata.NewSQLiteRepository(tx).Delete(ctx, userNameKey, tokenKey)
	})
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// TokenExpiry reads the exp claim of a JWT without verifying it. The result is
// for display only; the image service remains the authority on validity.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
