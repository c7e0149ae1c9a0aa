// Package server wires the gallery backend: storage, services and the two
// HTTP services (account and image), with graceful shutdown on signals.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophgallery/internal/logging"
	"github.com/dmitrijs2005/gophgallery/internal/server/blobs"
	"github.com/dmitrijs2005/gophgallery/internal/server/config"
	"github.com/dmitrijs2005/gophgallery/internal/server/httpapi"
	"github.com/dmitrijs2005/gophgallery/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophgallery/internal/server/services"
	"github.com/dmitrijs2005/gophgallery/internal/shared"
)

type App struct {
	config       *config.Config
	logger       logging.Logger
	repos        repomanager.RepositoryManager
	userService  *services.UserService
	imageService *services.ImageService
}

// openBlobStore is a seam for tests.
var openBlobStore = func(ctx context.Context, c *config.Config) (blobs.Store, error) {
	if c.S3Bucket == "" {
		return blobs.NewMemoryStore(), nil
	}
	return blobs.OpenS3Store(ctx, c.S3(), "")
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	if c.SecretKey == "" {
		key, err := shared.MakeRandHexString(32)
		if err != nil {
			return nil, fmt.Errorf("secret key: %w", err)
		}
		c.SecretKey = key
		logger.Warn(ctx, "no secret key configured, tokens will not survive a restart")
	}

	repos, err := repomanager.New(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	store, err := openBlobStore(ctx, c)
	if err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("blob store init error: %w", err)
	}

	us := services.NewUserService(repos.Users(), c)
	is := services.NewImageService(repos.Images(), store, c, logger.With("module", "images"))

	return &App{config: c, logger: logger, repos: repos, userService: us, imageService: is}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) servers() []*httpapi.HTTPServer {
	return []*httpapi.HTTPServer{
		httpapi.NewHTTPServer("account", app.config.AccountAddr,
			httpapi.NewAccountRouter(app.userService, app.logger), app.logger),
		httpapi.NewHTTPServer("image", app.config.ImageAddr,
			httpapi.NewImageRouter(app.imageService, app.userService, app.config.MaxUploadSize, app.logger), app.logger),
	}
}

// Run serves both services until ctx is cancelled, a signal arrives or one
// of them fails, then releases storage.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	for _, s := range app.servers() {
		wg.Add(1)
		go func(s *httpapi.HTTPServer) {
			defer wg.Done()
			if err := s.Run(ctx); err != nil {
				app.logger.Error(ctx, err.Error())
				cancelFunc()
			}
		}(s)
	}

	wg.Wait()

	app.imageService.Close()
	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "closing storage", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
