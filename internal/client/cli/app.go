package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/gophgallery/internal/client/client"
	"github.com/dmitrijs2005/gophgallery/internal/client/config"
	"github.com/dmitrijs2005/gophgallery/internal/client/services"
	"github.com/dmitrijs2005/gophgallery/internal/client/session"
	"github.com/dmitrijs2005/gophgallery/internal/client/sink"
	"github.com/dmitrijs2005/gophgallery/internal/logging"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	auth    services.AuthService
	poller  *services.ImagePoller
	upload  *services.UploadWorkflow
	gallery *services.GalleryService
	sink    services.Sink
	reader  *bufio.Reader
	out     io.Writer

	mu         sync.Mutex
	hadPending bool
}

// NewApp opens the session database and wires the services against the
// configured backend.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewTextLogger(os.Stderr, c.LogLevel)

	db, err := client.InitDatabase(ctx, c.SessionDBPath)
	if err != nil {
		return nil, fmt.Errorf("session database: %w", err)
	}

	apiClient, err := client.NewHTTPClient(c.AccountBaseURL, c.ImageBaseURL,
		client.WithTimeout(c.RequestTimeout), client.WithLogger(logger))
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	var out services.Sink = sink.NewFileSink(c.DownloadDir)
	if c.S3Bucket != "" {
		s3sink, err := sink.OpenS3Sink(ctx, c.S3(), c.S3Prefix)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		out = s3sink
	}

	a := &App{
		config: c,
		logger: logger,
		db:     db,
		sink:   out,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
	a.auth = services.NewAuthService(apiClient, session.NewStore(db), logger)
	a.poller = services.NewImagePoller(apiClient, a.auth, c.PollInterval, logger)
	a.upload = services.NewUploadWorkflow(apiClient, a.auth, a.poller, logger)
	a.gallery = services.NewGalleryService(apiClient, a.auth, a.poller, logger)

	a.auth.OnLogout(a.onLogout)
	a.poller.Subscribe(a.onPollUpdate)
	return a, nil
}

// Run restores a saved session, if any, and blocks in the REPL until the
// user leaves.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	printlnFn("Welcome to the gallery CLI (type 'help' for commands)")
	if sess, ok, err := a.auth.Current(ctx); err == nil && ok {
		printlnFn("Signed in as " + sess.UserName)
		_ = a.Refresh(ctx)
	}
	runREPL(ctx, a, func() string { return a.getStatus(ctx) }, a.reader)
}

func (a *App) Close() {
	a.poller.Stop()
	if err := a.db.Close(); err != nil {
		a.logger.Warn(context.Background(), "closing session database", "error", err)
	}
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	_, ok, err := a.auth.Current(ctx)
	return err == nil && ok
}

func (a *App) getStatus(ctx context.Context) string {
	sess, ok, err := a.auth.Current(ctx)
	if err != nil || !ok {
		return ""
	}
	s := sess.UserName
	if staged, ok := a.upload.Staged(); ok {
		s += " [" + staged.File.Name + "]"
	}
	if n := a.poller.Snapshot().PendingCount(); n > 0 {
		s += fmt.Sprintf(" %d processing", n)
	}
	return "(" + s + ") "
}

func (a *App) onLogout(reason services.LogoutReason) {
	if reason == services.LogoutExpired {
		printlnFn("Session expired, please log in again.")
	}
}

// onPollUpdate reports the end of thumbnail processing and failed background
// refreshes. Explicit commands print their own results.
func (a *App) onPollUpdate(u services.PollUpdate) {
	a.mu.Lock()
	hadPending := a.hadPending
	switch u.State {
	case services.PollScheduled, services.PollSettled:
		a.hadPending = u.Snapshot.HasPending()
	case services.PollStopped:
		a.hadPending = false
	}
	a.mu.Unlock()

	switch {
	case u.State == services.PollSettled && hadPending:
		printlnFn("All thumbnails are ready.")
	case u.State == services.PollFailed && u.Err != nil:
		printlnFn("Could not refresh the image list: " + describeError(u.Err))
	}
}
