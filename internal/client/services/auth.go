// Package services holds the client-side workflows of the gallery: sign-in
// and the single logout path, the image list poller, the upload workflow,
// and delete/download.
package services

import (
	"context"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gophgallery/internal/client/client"
	"github.com/dmitrijs2005/gophgallery/internal/client/models"
	"github.com/dmitrijs2005/gophgallery/internal/logging"
)

// SessionStore is implemented by session.Store.
type SessionStore interface {
	Current(ctx context.Context) (models.Session, bool, error)
	Set(ctx context.Context, sess models.Session) error
	Clear(ctx context.Context) error
	ClearIf(ctx context.Context, token string) (bool, error)
}

type LogoutReason int

const (
	LogoutRequested LogoutReason = iota
	LogoutExpired
)

func (r LogoutReason) String() string {
	if r == LogoutExpired {
		return "expired"
	}
	return "requested"
}

// AuthService signs users in and owns the one logout path. Everything that
// sees a 403 reports it through Expire.
type AuthService interface {
	Login(ctx context.Context, userName string, password []byte) (models.Session, error)
	Register(ctx context.Context, userName string, password, confirm []byte) (models.Session, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) (models.Session, bool, error)
	// Expire logs out if sess is still the current session and reports
	// whether it did. Concurrent calls for one session log out once. When the
	// store fails to persist the removal the logout still happens and the
	// error is returned alongside true.
	Expire(ctx context.Context, sess models.Session) (bool, error)
	OnLogout(fn func(reason LogoutReason))
}

type authService struct {
	client client.Client
	store  SessionStore
	logger logging.Logger

	mu    sync.Mutex
	hooks []func(LogoutReason)
}

func NewAuthService(c client.Client, store SessionStore, logger logging.Logger) AuthService {
	return &authService{client: c, store: store, logger: logger}
}

func validateCredentials(userName string, password []byte) error {
	if strings.TrimSpace(userName) == "" {
		return &ValidationError{Field: "username", Reason: "must not be empty"}
	}
	if len(password) == 0 {
		return &ValidationError{Field: "password", Reason: "must not be empty"}
	}
	return nil
}

func (a *authService) Login(ctx context.Context, userName string, password []byte) (models.Session, error) {
	if err := validateCredentials(userName, password); err != nil {
		return models.Session{}, err
	}
	return a.signIn(ctx, a.client.Login, userName, password)
}

// Register checks the confirmation locally before calling the account
// service.
func (a *authService) Register(ctx context.Context, userName string, password, confirm []byte) (models.Session, error) {
	if err := validateCredentials(userName, password); err != nil {
		return models.Session{}, err
	}
	if string(password) != string(confirm) {
		return models.Session{}, &ValidationError{Field: "password", Reason: "confirmation does not match", Err: ErrPasswordsDontMatch}
	}
	return a.signIn(ctx, a.client.Register, userName, password)
}

func (a *authService) signIn(ctx context.Context, call func(context.Context, models.Credentials) (models.Session, error), userName string, password []byte) (models.Session, error) {
	creds := models.Credentials{UserName: strings.TrimSpace(userName), Password: string(password)}
	sess, err := call(ctx, creds)
	if err != nil {
		return models.Session{}, err
	}
	if err := a.store.Set(ctx, sess); err != nil {
		return models.Session{}, err
	}
	a.logger.Info(ctx, "signed in", "user", sess.UserName)
	return sess, nil
}

func (a *authService) Logout(ctx context.Context) error {
	err := a.store.Clear(ctx)
	a.fire(LogoutRequested)
	return err
}

func (a *authService) Current(ctx context.Context) (models.Session, bool, error) {
	return a.store.Current(ctx)
}

func (a *authService) Expire(ctx context.Context, sess models.Session) (bool, error) {
	cleared, err := a.store.ClearIf(ctx, sess.Token)
	if !cleared {
		return false, err
	}
	a.logger.Warn(ctx, "session expired", "user", sess.UserName)
	a.fire(LogoutExpired)
	return true, err
}

// OnLogout registers fn to run after every logout, in registration order.
func (a *authService) OnLogout(fn func(reason LogoutReason)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hooks = append(a.hooks, fn)
}

func (a *authService) fire(reason LogoutReason) {
	a.mu.Lock()
	hooks := append([]func(LogoutReason){}, a.hooks...)
	a.mu.Unlock()

	for _, fn := range hooks {
		fn(reason)
	}
}

// currentSession returns the signed-in session or ErrNotLoggedIn.
func currentSession(ctx context.Context, a AuthService) (models.Session, error) {
	sess, ok, err := a.Current(ctx)
	if err != nil {
		return models.Session{}, err
	}
	if !ok {
		return models.Session{}, ErrNotLoggedIn
	}
	return sess, nil
}

// expireOn hands a 403 to the logout path and passes err through.
func expireOn(ctx context.Context, a AuthService, sess models.Session, err error, logger logging.Logger) error {
	if client.IsSessionExpired(err) {
		if _, xerr := a.Expire(ctx, sess); xerr != nil {
			logger.Error(ctx, "logout after expiry failed", "error", xerr)
		}
	}
	return err
}
