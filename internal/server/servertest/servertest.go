// Package servertest runs an in-memory gallery backend on loopback HTTP
// servers, for integration tests of clients.
package servertest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophgallery/internal/logging"
	"github.com/dmitrijs2005/gophgallery/internal/server/blobs"
	"github.com/dmitrijs2005/gophgallery/internal/server/config"
	"github.com/dmitrijs2005/gophgallery/internal/server/httpapi"
	"github.com/dmitrijs2005/gophgallery/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophgallery/internal/server/services"
	"github.com/gin-gonic/gin"
)

// Options tune the backend. The zero value gives hour-long tokens and
// thumbnails that stay pending until CompleteThumbnails.
type Options struct {
	TokenValidity  time.Duration
	ThumbnailDelay time.Duration
	MaxUploadSize  int64
	// Intercept, when set, may answer a request itself (returning true)
	// before the backend sees it.
	Intercept func(w http.ResponseWriter, r *http.Request) bool
}

type Backend struct {
	AccountURL string
	ImageURL   string
	Users      *services.UserService
	Images     *services.ImageService

	mu    sync.Mutex
	calls map[string]int
}

// Start launches both services and registers their shutdown with t.Cleanup.
func Start(t testing.TB, opts Options) *Backend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "servertest-secret"
	cfg.ThumbnailSize = 32
	cfg.ThumbnailDelay = -1
	if opts.ThumbnailDelay != 0 {
		cfg.ThumbnailDelay = opts.ThumbnailDelay
	}
	if opts.TokenValidity != 0 {
		cfg.AccessTokenValidityDuration = opts.TokenValidity
	}
	if opts.MaxUploadSize != 0 {
		cfg.MaxUploadSize = opts.MaxUploadSize
	}

	logger := logging.Discard()
	m := repomanager.NewMemoryRepositoryManager()
	us := services.NewUserService(m.Users(), cfg)
	is := services.NewImageService(m.Images(), blobs.NewMemoryStore(), cfg, logger)

	b := &Backend{Users: us, Images: is, calls: make(map[string]int)}

	account := httptest.NewServer(b.wrap(httpapi.NewAccountRouter(us, logger), opts.Intercept))
	image := httptest.NewServer(b.wrap(httpapi.NewImageRouter(is, us, cfg.MaxUploadSize, logger), opts.Intercept))
	t.Cleanup(func() {
		account.Close()
		image.Close()
		is.Close()
	})

	b.AccountURL = account.URL
	b.ImageURL = image.URL
	return b
}

func (b *Backend) wrap(h http.Handler, intercept func(http.ResponseWriter, *http.Request) bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls[r.Method+" "+r.URL.Path]++
		b.mu.Unlock()

		if intercept != nil && intercept(w, r) {
			return
		}
		h.ServeHTTP(w, r)
	})
}

// Calls counts requests seen for method and path, e.g. ("GET", "/images/list").
func (b *Backend) Calls(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[method+" "+path]
}

// Register creates a user and returns its token.
func (b *Backend) Register(t testing.TB, userName, password string) string {
	t.Helper()
	token, err := b.Users.Register(context.Background(), userName, password)
	if err != nil {
		t.Fatalf("register %s: %v", userName, err)
	}
	return token
}

// CompleteThumbnails finishes owner's pending thumbnails.
func (b *Backend) CompleteThumbnails(t testing.TB, owner string) int {
	t.Helper()
	n, err := b.Images.CompleteThumbnails(context.Background(), owner)
	if err != nil {
		t.Fatalf("complete thumbnails: %v", err)
	}
	return n
}
