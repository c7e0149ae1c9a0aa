package services

import (
	"context"
	"database/sql"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophgallery/internal/client/client"
	"github.com/dmitrijs2005/gophgallery/internal/client/models"
	"github.com/dmitrijs2005/gophgallery/internal/client/session"
	"github.com/dmitrijs2005/gophgallery/internal/logging"
	"github.com/dmitrijs2005/gophgallery/internal/netx"
	"github.com/stretchr/testify/require"
)

type listResult struct {
	snap *models.ImageListSnapshot
	err  error
}

// fakeClient implements client.Client with scripted results.
type fakeClient struct {
	mu sync.Mutex

	loginSess   models.Session
	loginErr    error
	loginCalls  int
	registerErr error
	registered  []models.Credentials

	// list results are consumed in order; the last one repeats
	lists       []listResult
	listCalls   int
	listGate    chan struct{}
	listEntered chan struct{}

	uploadProgress  []int
	uploadErr       error
	uploadGate      chan struct{}
	uploadGateAfter int
	uploadCalls     int

	deleteErr   error
	deleted     []string
	downloadErr error
	downloads   []models.DownloadRequest
	content     string
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) Login(ctx context.Context, creds models.Credentials) (models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginCalls++
	if f.loginErr != nil {
		return models.Session{}, f.loginErr
	}
	return f.loginSess, nil
}

func (f *fakeClient) Register(ctx context.Context, creds models.Credentials) (models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registered = append(f.registered, creds)
	if f.registerErr != nil {
		return models.Session{}, f.registerErr
	}
	return models.Session{UserName: creds.UserName, Token: "tok-" + creds.UserName}, nil
}

func (f *fakeClient) ListImages(ctx context.Context, sess models.Session) (*models.ImageListSnapshot, error) {
	f.mu.Lock()
	f.listCalls++
	var r listResult
	if len(f.lists) > 0 {
		r = f.lists[0]
		if len(f.lists) > 1 {
			f.lists = f.lists[1:]
		}
	} else {
		r = listResult{snap: &models.ImageListSnapshot{Files: []models.ImageRecord{}}}
	}
	gate, entered := f.listGate, f.listEntered
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	return r.snap, r.err
}

func (f *fakeClient) UploadImage(ctx context.Context, sess models.Session, file models.FileCandidate, onProgress netx.ProgressFunc) error {
	f.mu.Lock()
	f.uploadCalls++
	progress, gate, after, err := f.uploadProgress, f.uploadGate, f.uploadGateAfter, f.uploadErr
	f.mu.Unlock()

	for i, p := range progress {
		if gate != nil && i == after {
			<-gate
		}
		if onProgress != nil {
			onProgress(p)
		}
	}
	if gate != nil && after >= len(progress) {
		<-gate
	}
	return err
}

func (f *fakeClient) DownloadImage(ctx context.Context, sess models.Session, req models.DownloadRequest) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.downloads = append(f.downloads, req)
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}
	return io.NopCloser(strings.NewReader(f.content)), nil
}

func (f *fakeClient) DeleteImage(ctx context.Context, sess models.Session, fileName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, fileName)
	return f.deleteErr
}

func (f *fakeClient) calls() (login, list, upload int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loginCalls, f.listCalls, f.uploadCalls
}

// fakeTimer never fires by itself.
type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (c *fakeClock) Stop(t *fakeTimer) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	was := !t.stopped && !t.fired
	t.stopped = true
	return was
}

type clockTimer struct {
	c *fakeClock
	t *fakeTimer
}

func (ct clockTimer) Stop() bool { return ct.c.Stop(ct.t) }

func useFakeClock(t *testing.T) *fakeClock {
	t.Helper()
	c := &fakeClock{}
	old := afterFunc
	afterFunc = func(d time.Duration, f func()) stopper {
		c.mu.Lock()
		defer c.mu.Unlock()
		ft := &fakeTimer{d: d, f: f}
		c.timers = append(c.timers, ft)
		return clockTimer{c: c, t: ft}
	}
	t.Cleanup(func() { afterFunc = old })
	return c
}

// armed lists timers neither stopped nor fired.
func (c *fakeClock) armed() []*fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			out = append(out, t)
		}
	}
	return out
}

// fire runs every armed timer once, synchronously.
func (c *fakeClock) fire() int {
	armed := c.armed()
	c.mu.Lock()
	for _, t := range armed {
		t.fired = true
	}
	c.mu.Unlock()
	for _, t := range armed {
		t.f()
	}
	return len(armed)
}

type fixture struct {
	db      *sql.DB
	client  *fakeClient
	store   *session.Store
	auth    AuthService
	poller  *ImagePoller
	upload  *UploadWorkflow
	gallery *GalleryService
	clock   *fakeClock

	mu      sync.Mutex
	logouts []LogoutReason
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	fx := &fixture{db: db, client: &fakeClient{}, store: session.NewStore(db), clock: useFakeClock(t)}
	logger := logging.Discard()
	fx.auth = NewAuthService(fx.client, fx.store, logger)
	fx.auth.OnLogout(func(r LogoutReason) {
		fx.mu.Lock()
		fx.logouts = append(fx.logouts, r)
		fx.mu.Unlock()
	})
	fx.poller = NewImagePoller(fx.client, fx.auth, 5*time.Second, logger)
	fx.upload = NewUploadWorkflow(fx.client, fx.auth, fx.poller, logger)
	fx.gallery = NewGalleryService(fx.client, fx.auth, fx.poller, logger)
	return fx
}

func (fx *fixture) signIn(t *testing.T) models.Session {
	t.Helper()
	sess := models.Session{UserName: "alice", Token: "t1"}
	require.NoError(t, fx.store.Set(context.Background(), sess))
	return sess
}

func (fx *fixture) logoutCount() int {
	fx.mu.Lock()
	defer fx.mu.Unlock()
	return len(fx.logouts)
}

func pending(names ...string) *models.ImageListSnapshot {
	return snapshot(models.ThumbnailPending, names...)
}

func completed(names ...string) *models.ImageListSnapshot {
	return snapshot(models.ThumbnailCompleted, names...)
}

func snapshot(status models.ThumbnailStatus, names ...string) *models.ImageListSnapshot {
	s := &models.ImageListSnapshot{Files: []models.ImageRecord{}, ImageCount: len(names)}
	for _, n := range names {
		s.Files = append(s.Files, models.ImageRecord{
			FileName:         n,
			OriginalFileName: "orig-" + n,
			OriginalFileSize: 100,
			ThumbnailStatus:  status,
		})
	}
	return s
}

func drain(events <-chan models.UploadEvent) []models.UploadEvent {
	var out []models.UploadEvent
	for ev := range events {
		out = append(out, ev)
	}
	return out
}
