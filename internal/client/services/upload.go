package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophgallery/internal/client/client"
	"github.com/dmitrijs2005/gophgallery/internal/client/models"
	"github.com/dmitrijs2005/gophgallery/internal/imagex"
	"github.com/dmitrijs2005/gophgallery/internal/logging"
)

type UploadState int

const (
	UploadNoFile UploadState = iota
	UploadFileSelected
	UploadUploading
	UploadRefreshingList
)

func (s UploadState) String() string {
	switch s {
	case UploadNoFile:
		return "no-file"
	case UploadFileSelected:
		return "file-selected"
	case UploadUploading:
		return "uploading"
	case UploadRefreshingList:
		return "refreshing-list"
	}
	return "unknown"
}

// StagedFile is the file waiting to be uploaded.
type StagedFile struct {
	File models.FileCandidate
	// Preview is empty when the content could not be decoded locally; the
	// image service has the final say.
	Preview    imagex.Preview
	PreviewErr error
}

// progress events (at most 100) plus the terminal one
const uploadEventBuffer = 102

// UploadWorkflow stages one file at a time and uploads it. Each upload gets
// an epoch; logging out bumps the epoch, so anything the old upload reports
// afterwards is dropped.
type UploadWorkflow struct {
	client client.Client
	auth   AuthService
	poller *ImagePoller
	logger logging.Logger

	mu     sync.Mutex
	state  UploadState
	staged *StagedFile
	epoch  uint64
	cancel context.CancelFunc
	events chan models.UploadEvent
	reason LogoutReason
}

func NewUploadWorkflow(c client.Client, auth AuthService, poller *ImagePoller, logger logging.Logger) *UploadWorkflow {
	w := &UploadWorkflow{client: c, auth: auth, poller: poller, logger: logger}
	auth.OnLogout(w.invalidate)
	return w
}

func (w *UploadWorkflow) State() UploadState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Staged returns the staged file, if any.
func (w *UploadWorkflow) Staged() (StagedFile, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.staged == nil {
		return StagedFile{}, false
	}
	return *w.staged, true
}

// SelectFile stages f, replacing any earlier selection. Non-image media
// types are rejected with a ValidationError and leave the state untouched.
func (w *UploadWorkflow) SelectFile(f models.FileCandidate) (StagedFile, error) {
	if !imagex.IsImageMediaType(f.MediaType) {
		mt := f.MediaType
		if mt == "" {
			mt = "unknown type"
		}
		return StagedFile{}, &ValidationError{Field: "file", Reason: fmt.Sprintf("%s is not an image (%s)", f.Name, mt)}
	}

	w.mu.Lock()
	busy := w.state == UploadUploading || w.state == UploadRefreshingList
	w.mu.Unlock()
	if busy {
		return StagedFile{}, ErrUploadInProgress
	}

	staged := StagedFile{File: f}
	staged.Preview, staged.PreviewErr = preview(f)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == UploadUploading || w.state == UploadRefreshingList {
		return StagedFile{}, ErrUploadInProgress
	}
	w.staged = &staged
	w.state = UploadFileSelected
	return staged, nil
}

func preview(f models.FileCandidate) (imagex.Preview, error) {
	if f.Open == nil {
		return imagex.Preview{}, errors.New("no content")
	}
	rc, err := f.Open()
	if err != nil {
		return imagex.Preview{}, err
	}
	defer rc.Close()
	return imagex.Inspect(rc)
}

// ClearFile drops the staged file. It is refused while uploading. After a
// successful upload nothing is staged any more, so clearing during the list
// refresh is a no-op.
func (w *UploadWorkflow) ClearFile() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.state {
	case UploadUploading:
		return ErrUploadInProgress
	case UploadRefreshingList:
		return nil
	}
	w.staged = nil
	w.state = UploadNoFile
	return nil
}

// StartUpload uploads the staged file. The returned channel yields progress
// events followed by exactly one terminal event, then closes.
func (w *UploadWorkflow) StartUpload(ctx context.Context) (<-chan models.UploadEvent, error) {
	sess, err := currentSession(ctx, w.auth)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	switch w.state {
	case UploadUploading, UploadRefreshingList:
		w.mu.Unlock()
		return nil, ErrUploadInProgress
	case UploadNoFile:
		w.mu.Unlock()
		return nil, ErrNoFileSelected
	}
	w.state = UploadUploading
	w.epoch++
	epoch := w.epoch
	file := w.staged.File
	uctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	events := make(chan models.UploadEvent, uploadEventBuffer)
	w.events = events
	w.mu.Unlock()

	go w.run(uctx, cancel, sess, file, epoch, events)
	return events, nil
}

func (w *UploadWorkflow) run(ctx context.Context, cancel context.CancelFunc, sess models.Session, file models.FileCandidate, epoch uint64, events chan<- models.UploadEvent) {
	defer close(events)
	defer cancel()

	err := w.client.UploadImage(ctx, sess, file, func(percent int) {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.epoch != epoch {
			return
		}
		select {
		case events <- models.UploadEvent{Outcome: models.UploadInProgress, Progress: percent}:
		default:
		}
	})

	switch {
	case err == nil:
		if !w.advance(epoch, UploadRefreshingList, false) {
			events <- w.staleOutcome()
			return
		}
		w.logger.Info(ctx, "upload done", "file", file.Name)

		ev := models.UploadEvent{Outcome: models.UploadSucceeded}
		_, rerr := w.poller.Refresh(ctx)
		if rerr != nil && !errors.Is(rerr, ErrRefreshInProgress) && !client.IsSessionExpired(rerr) && !errors.Is(rerr, ErrNotLoggedIn) {
			ev.RefreshErr = rerr
		}
		w.advance(epoch, UploadNoFile, false)
		events <- ev

	case client.IsSessionExpired(err):
		expireOn(ctx, w.auth, sess, err, w.logger)
		// normally a no-op: the logout hook has already moved on
		w.advance(epoch, UploadNoFile, false)
		events <- models.UploadEvent{Outcome: models.UploadSessionExpired, Err: err}

	default:
		if !w.advance(epoch, UploadFileSelected, true) {
			events <- w.staleOutcome()
			return
		}
		w.logger.Warn(ctx, "upload failed", "file", file.Name, "error", err)
		events <- models.UploadEvent{Outcome: models.UploadFailed, Err: err}
	}
}

// advance moves to next if epoch is still current. Leaving the file staged
// lets the user retry without selecting it again.
func (w *UploadWorkflow) advance(epoch uint64, next UploadState, keepFile bool) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.epoch != epoch {
		return false
	}
	w.state = next
	if !keepFile {
		w.staged = nil
	}
	if next != UploadUploading && next != UploadRefreshingList {
		w.cancel = nil
		w.events = nil
	}
	return true
}

func (w *UploadWorkflow) staleOutcome() models.UploadEvent {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.reason == LogoutExpired {
		return models.UploadEvent{Outcome: models.UploadSessionExpired, Err: client.ErrSessionExpired}
	}
	return models.UploadEvent{Outcome: models.UploadFailed, Err: ErrUploadCancelled}
}

// invalidate runs on logout. Progress still queued for the consumer belongs
// to the cancelled upload and is dropped; only its terminal event follows.
func (w *UploadWorkflow) invalidate(reason LogoutReason) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.epoch++
	w.reason = reason
	w.staged = nil
	w.state = UploadNoFile
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	if w.events != nil {
		discardQueued(w.events)
		w.events = nil
	}
}

func discardQueued(ch chan models.UploadEvent) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}
