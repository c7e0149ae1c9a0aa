package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophgallery/internal/client/config"
	"github.com/dmitrijs2005/gophgallery/internal/server/servertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type output struct {
	mu    sync.Mutex
	lines []string
}

func (o *output) all() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return strings.Join(o.lines, "\n")
}

func (o *output) reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lines = nil
}

func (o *output) count(s string) int {
	return strings.Count(o.all(), s)
}

// captureOutput is the goroutine-safe variant of capturePrintln; uploads
// print from a background goroutine.
func captureOutput(t *testing.T) *output {
	t.Helper()
	o := &output{}
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		o.mu.Lock()
		defer o.mu.Unlock()
		o.lines = append(o.lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return o
}

func stubPasswords(t *testing.T, pws ...string) {
	t.Helper()
	orig := readPassword
	var mu sync.Mutex
	readPassword = func(int) ([]byte, error) {
		mu.Lock()
		defer mu.Unlock()
		if len(pws) == 0 {
			return nil, io.EOF
		}
		pw := pws[0]
		pws = pws[1:]
		return []byte(pw), nil
	}
	t.Cleanup(func() { readPassword = orig })
}

func newTestApp(t *testing.T, b *servertest.Backend) *App {
	t.Helper()
	dir := t.TempDir()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.AccountBaseURL = b.AccountURL
	cfg.ImageBaseURL = b.ImageURL
	cfg.SessionDBPath = filepath.Join(dir, "session.db")
	cfg.DownloadDir = filepath.Join(dir, "downloads")
	cfg.PollInterval = time.Hour
	cfg.RequestTimeout = 5 * time.Second
	cfg.LogLevel = "error"

	app, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)
	app.out = io.Discard
	t.Cleanup(app.Close)
	return app
}

func (a *App) feed(lines ...string) {
	a.reader = bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.NRGBA{G: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func TestApp_GalleryWorkflow(t *testing.T) {
	ctx := context.Background()
	out := captureOutput(t)
	b := servertest.Start(t, servertest.Options{})
	app := newTestApp(t, b)

	stubPasswords(t, "secret1", "secret1")
	app.feed("alice")
	require.NoError(t, app.Register(ctx))
	assert.Contains(t, out.all(), "Registered and signed in as alice")
	assert.Contains(t, out.all(), "0 image(s)")
	assert.True(t, app.isLoggedIn(ctx))

	path := writePNG(t, t.TempDir(), "cat.png", 40, 30)
	require.NoError(t, app.Select(ctx, []string{path}))
	assert.Contains(t, out.all(), "Selected cat.png")
	assert.Contains(t, out.all(), "png 40x30")
	assert.Contains(t, app.getStatus(ctx), "[cat.png]")

	out.reset()
	require.NoError(t, app.Upload(ctx, nil))
	assert.Contains(t, out.all(), "Uploading [####################] 100%")
	assert.Contains(t, out.all(), "Upload complete, processing thumbnail…")
	assert.Contains(t, app.getStatus(ctx), "1 processing")
	assert.NotContains(t, app.getStatus(ctx), "[cat.png]")

	require.Equal(t, 1, b.CompleteThumbnails(t, "alice"))
	out.reset()
	require.NoError(t, app.Refresh(ctx))
	assert.Contains(t, out.all(), "All thumbnails are ready.")
	assert.Contains(t, out.all(), "1 image(s)")

	out.reset()
	require.NoError(t, app.List(ctx))
	assert.Contains(t, out.all(), "cat.png")
	assert.NotContains(t, out.all(), "processing")

	fileName := app.poller.Snapshot().Files[0].FileName
	require.NoError(t, app.Download(ctx, []string{fileName}))
	require.NoError(t, app.Download(ctx, []string{fileName, "thumbnail"}))
	_, err := os.Stat(filepath.Join(app.config.DownloadDir, "cat.png"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(app.config.DownloadDir, "thumb_cat.png"))
	require.NoError(t, err)

	out.reset()
	app.feed("n")
	require.NoError(t, app.Delete(ctx, []string{fileName}))
	assert.Equal(t, "Cancelled", out.all())
	assert.Zero(t, b.Calls(http.MethodDelete, "/images/delete/"+fileName))
	assert.Len(t, app.poller.Snapshot().Files, 1)

	out.reset()
	app.feed("y")
	require.NoError(t, app.Delete(ctx, []string{fileName}))
	assert.Contains(t, out.all(), "Deleted "+fileName)
	assert.Equal(t, 1, b.Calls(http.MethodDelete, "/images/delete/"+fileName))

	out.reset()
	require.NoError(t, app.List(ctx))
	assert.Contains(t, out.all(), "No images yet")

	out.reset()
	require.NoError(t, app.WhoAmI(ctx))
	assert.Contains(t, out.all(), "Signed in as alice, token expires")

	require.NoError(t, app.Logout(ctx))
	assert.False(t, app.isLoggedIn(ctx))
	out.reset()
	require.Error(t, app.List(ctx))
	assert.Equal(t, "Error: please log in first", out.all())
}

func TestApp_DeleteConfirmation(t *testing.T) {
	ctx := context.Background()
	out := captureOutput(t)
	b := servertest.Start(t, servertest.Options{})
	app := newTestApp(t, b)

	b.Register(t, "dave", "secret1")
	_, err := app.auth.Login(ctx, "dave", []byte("secret1"))
	require.NoError(t, err)

	// anything but y/yes declines, including an empty answer
	for _, answer := range []string{"", "no", "maybe"} {
		out.reset()
		app.feed(answer)
		require.NoError(t, app.Delete(ctx, []string{"missing.png"}))
		assert.Equal(t, "Cancelled", out.all())
	}
	assert.Zero(t, b.Calls(http.MethodDelete, "/images/delete/missing.png"))

	out.reset()
	app.feed("YES")
	require.Error(t, app.Delete(ctx, []string{"missing.png"}))
	assert.Contains(t, out.all(), "image not found")
	assert.Equal(t, 1, b.Calls(http.MethodDelete, "/images/delete/missing.png"))

	// -y skips the prompt; an empty answer would have declined
	out.reset()
	app.feed()
	require.Error(t, app.Delete(ctx, []string{"-y", "missing.png"}))
	assert.Contains(t, out.all(), "image not found")
	assert.Equal(t, 2, b.Calls(http.MethodDelete, "/images/delete/missing.png"))

	out.reset()
	require.ErrorIs(t, app.Delete(ctx, []string{"-y"}), errUsage)
	assert.Equal(t, "Usage: delete [-y] <file>", out.all())
}

func TestApp_LoginRestoresAcrossRestart(t *testing.T) {
	ctx := context.Background()
	captureOutput(t)
	b := servertest.Start(t, servertest.Options{})
	b.Register(t, "bob", "secret1")

	app := newTestApp(t, b)
	stubPasswords(t, "secret1")
	app.feed("bob")
	require.NoError(t, app.Login(ctx))

	cfg := *app.config
	app.Close()

	again, err := NewApp(ctx, &cfg)
	require.NoError(t, err)
	t.Cleanup(again.Close)
	assert.True(t, again.isLoggedIn(ctx))
	assert.Equal(t, 1, b.Calls(http.MethodPost, "/auth/login"))
}

func TestApp_WrongPassword(t *testing.T) {
	ctx := context.Background()
	out := captureOutput(t)
	b := servertest.Start(t, servertest.Options{})
	b.Register(t, "bob", "secret1")
	app := newTestApp(t, b)

	stubPasswords(t, "nope")
	app.feed("bob")
	require.Error(t, app.Login(ctx))
	assert.Contains(t, out.all(), "Error: request failed (HTTP 401): invalid login/password")
	assert.False(t, app.isLoggedIn(ctx))
}

func TestApp_RegisterConfirmationMismatchStaysLocal(t *testing.T) {
	ctx := context.Background()
	out := captureOutput(t)
	b := servertest.Start(t, servertest.Options{})
	app := newTestApp(t, b)

	stubPasswords(t, "secret1", "secret2")
	app.feed("alice")
	require.Error(t, app.Register(ctx))
	assert.Contains(t, out.all(), "Error: invalid password: confirmation does not match")
	assert.Zero(t, b.Calls(http.MethodPost, "/auth/registry"))
}

func TestApp_SelectRejectsNonImage(t *testing.T) {
	ctx := context.Background()
	out := captureOutput(t)
	b := servertest.Start(t, servertest.Options{})
	app := newTestApp(t, b)

	txt := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("just text"), 0o600))

	require.Error(t, app.Select(ctx, []string{txt}))
	assert.Contains(t, out.all(), "is not an image")
	require.Error(t, app.Select(ctx, nil))
	assert.Contains(t, out.all(), "Usage: select <path>")
}

func TestApp_ExpiredSessionAnnouncedOnce(t *testing.T) {
	ctx := context.Background()
	out := captureOutput(t)
	b := servertest.Start(t, servertest.Options{TokenValidity: -time.Minute})
	app := newTestApp(t, b)

	stubPasswords(t, "secret1", "secret1")
	app.feed("alice")
	require.Error(t, app.Register(ctx))

	assert.Equal(t, 1, out.count("Session expired, please log in again."))
	assert.NotContains(t, out.all(), "Error:")
	assert.False(t, app.isLoggedIn(ctx))

	out.reset()
	require.Error(t, app.Delete(ctx, []string{"x.png"}))
	assert.Equal(t, "Error: please log in first", out.all())
}

func TestApp_UploadSessionExpired(t *testing.T) {
	ctx := context.Background()
	out := captureOutput(t)
	b := servertest.Start(t, servertest.Options{TokenValidity: -time.Minute})
	app := newTestApp(t, b)

	// sign in without touching the image service
	b.Register(t, "carol", "secret1")
	sess, err := app.auth.Login(ctx, "carol", []byte("secret1"))
	require.NoError(t, err)
	require.NotEmpty(t, sess.Token)

	path := writePNG(t, t.TempDir(), "a.png", 8, 8)
	err = app.Upload(ctx, []string{path})
	require.Error(t, err)
	assert.Equal(t, 1, out.count("Session expired, please log in again."))
	assert.False(t, app.isLoggedIn(ctx))
	_, staged := app.upload.Staged()
	assert.False(t, staged)
}
