package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophgallery/internal/client/client"
	"github.com/dmitrijs2005/gophgallery/internal/client/models"
	"github.com/dmitrijs2005/gophgallery/internal/logging"
)

const DefaultPollInterval = 5 * time.Second

type PollState int

const (
	PollIdle PollState = iota
	PollFetching
	PollScheduled
	PollSettled
	PollStopped
	PollFailed
)

func (s PollState) String() string {
	switch s {
	case PollIdle:
		return "idle"
	case PollFetching:
		return "fetching"
	case PollScheduled:
		return "scheduled"
	case PollSettled:
		return "settled"
	case PollStopped:
		return "stopped"
	case PollFailed:
		return "failed"
	}
	return "unknown"
}

// PollUpdate is delivered to listeners after every state change.
type PollUpdate struct {
	State    PollState
	Snapshot *models.ImageListSnapshot
	Err      error
}

type stopper interface {
	Stop() bool
}

// afterFunc arms the re-poll timer; tests replace it with a manual clock.
var afterFunc = func(d time.Duration, f func()) stopper {
	return time.AfterFunc(d, f)
}

// ImagePoller keeps the image list current. A fetch that finds pending
// thumbnails arms a single timer for the next one; a fully processed list
// settles the poller until the next explicit Refresh.
type ImagePoller struct {
	client   client.Client
	auth     AuthService
	interval time.Duration
	logger   logging.Logger

	mu        sync.Mutex
	state     PollState
	snapshot  *models.ImageListSnapshot
	lastErr   error
	timer     stopper
	fetching  bool
	again     bool
	gen       uint64
	listeners []func(PollUpdate)
}

func NewImagePoller(c client.Client, auth AuthService, interval time.Duration, logger logging.Logger) *ImagePoller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	p := &ImagePoller{client: c, auth: auth, interval: interval, logger: logger}
	auth.OnLogout(func(LogoutReason) { p.Stop() })
	return p
}

// Subscribe adds a listener. Listeners run on the goroutine that caused the
// change and must not block.
func (p *ImagePoller) Subscribe(fn func(PollUpdate)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
}

func (p *ImagePoller) State() PollState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Snapshot returns the last successfully fetched list, nil before the first.
func (p *ImagePoller) Snapshot() *models.ImageListSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot
}

func (p *ImagePoller) LastError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// Refresh fetches the list now, disarming any pending timer. While another
// fetch is running it returns ErrRefreshInProgress and the running fetch is
// followed by one more as soon as it completes successfully.
func (p *ImagePoller) Refresh(ctx context.Context) (*models.ImageListSnapshot, error) {
	sess, err := currentSession(ctx, p.auth)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	if p.fetching {
		p.again = true
		p.mu.Unlock()
		return nil, ErrRefreshInProgress
	}
	p.disarmLocked()
	p.fetching = true
	p.again = false
	p.gen++
	gen := p.gen
	p.state = PollFetching
	update := p.updateLocked()
	p.mu.Unlock()
	p.notify(update)

	snap, err := p.client.ListImages(ctx, sess)

	p.mu.Lock()
	p.fetching = false
	if gen != p.gen {
		// stopped while fetching
		p.mu.Unlock()
		if err != nil {
			return nil, expireOn(ctx, p.auth, sess, err, p.logger)
		}
		return nil, ErrNotLoggedIn
	}

	switch {
	case client.IsSessionExpired(err):
		p.state = PollStopped
		p.lastErr = err
		update = p.updateLocked()
		p.mu.Unlock()
		p.notify(update)
		return nil, expireOn(ctx, p.auth, sess, err, p.logger)

	case err != nil:
		p.state = PollFailed
		p.lastErr = err
		p.again = false
		update = p.updateLocked()
		p.mu.Unlock()
		p.logger.Warn(ctx, "image list refresh failed", "error", err)
		p.notify(update)
		return nil, err
	}

	p.snapshot = snap
	p.lastErr = nil
	switch {
	case p.again:
		p.again = false
		p.armLocked(0, gen)
		p.state = PollScheduled
	case snap.HasPending():
		p.armLocked(p.interval, gen)
		p.state = PollScheduled
	default:
		p.state = PollSettled
	}
	update = p.updateLocked()
	p.mu.Unlock()
	p.notify(update)
	return snap, nil
}

func (p *ImagePoller) armLocked(d time.Duration, gen uint64) {
	p.timer = afterFunc(d, func() { p.fire(gen) })
}

func (p *ImagePoller) disarmLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

// fire runs a scheduled fetch unless the timer has been superseded.
func (p *ImagePoller) fire(gen uint64) {
	p.mu.Lock()
	if gen != p.gen || p.timer == nil {
		p.mu.Unlock()
		return
	}
	p.timer = nil
	p.mu.Unlock()

	ctx := context.Background()
	if _, err := p.Refresh(ctx); err != nil && !errors.Is(err, ErrRefreshInProgress) && !errors.Is(err, ErrNotLoggedIn) {
		p.logger.Debug(ctx, "scheduled refresh failed", "error", err)
	}
}

// Stop disarms the timer, drops the snapshot and discards the result of any
// fetch in flight. A later Refresh starts over.
func (p *ImagePoller) Stop() {
	p.mu.Lock()
	p.gen++
	p.disarmLocked()
	p.again = false
	p.snapshot = nil
	p.state = PollStopped
	update := p.updateLocked()
	p.mu.Unlock()
	p.notify(update)
}

func (p *ImagePoller) updateLocked() PollUpdate {
	return PollUpdate{State: p.state, Snapshot: p.snapshot, Err: p.lastErr}
}

func (p *ImagePoller) notify(u PollUpdate) {
	p.mu.Lock()
	listeners := append([]func(PollUpdate){}, p.listeners...)
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(u)
	}
}
