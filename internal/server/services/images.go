package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophgallery/internal/imagex"
	"github.com/dmitrijs2005/gophgallery/internal/logging"
	"github.com/dmitrijs2005/gophgallery/internal/server/blobs"
	"github.com/dmitrijs2005/gophgallery/internal/server/config"
	"github.com/dmitrijs2005/gophgallery/internal/server/models"
	"github.com/dmitrijs2005/gophgallery/internal/server/repositories/images"
	"github.com/dmitrijs2005/gophgallery/internal/shared"
	"github.com/google/uuid"
)

const thumbnailQuality = 80

const (
	FolderOriginal  = "original"
	FolderThumbnail = "thumbnail"
)

// ImageService owns uploads and their thumbnails. Each upload starts with a
// pending thumbnail; a background job completes it after ThumbnailDelay, or
// on CompleteThumbnails when the delay is negative.
type ImageService struct {
	repo      images.Repository
	blobs     blobs.Store
	logger    logging.Logger
	delay     time.Duration
	thumbSize int
	maxUpload int64

	mu      sync.Mutex
	timers  map[string]*time.Timer
	wg      sync.WaitGroup
	closed  bool
	newName func(ext string) string
	now     func() time.Time
}

func NewImageService(repo images.Repository, store blobs.Store, cfg *config.Config, logger logging.Logger) *ImageService {
	return &ImageService{
		repo:      repo,
		blobs:     store,
		logger:    logger,
		delay:     cfg.ThumbnailDelay,
		thumbSize: cfg.ThumbnailSize,
		maxUpload: cfg.MaxUploadSize,
		timers:    make(map[string]*time.Timer),
		newName: func(ext string) string {
			return uuid.NewString() + ext
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

func jobKey(owner, fileName string) string {
	return owner + "/" + fileName
}

// Upload stores the original and schedules its thumbnail.
func (s *ImageService) Upload(ctx context.Context, owner, originalName string, data []byte) (*models.Image, error) {
	if s.maxUpload > 0 && int64(len(data)) > s.maxUpload {
		return nil, shared.ErrorFileTooLarge
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	mediaType := imagex.DetectMediaType(originalName, head)
	if !imagex.IsImageMediaType(mediaType) {
		return nil, shared.ErrorNotAnImage
	}

	img := &models.Image{
		FileName:         s.newName(strings.ToLower(filepath.Ext(originalName))),
		Owner:            owner,
		OriginalFileName: filepath.Base(originalName),
		OriginalFileSize: int64(len(data)),
		ContentType:      mediaType,
		UploadDate:       s.now(),
		ThumbnailStatus:  models.ThumbnailPending,
	}

	if err := s.blobs.Put(ctx, img.OriginalKey(), blobs.Blob{Data: data, ContentType: mediaType}); err != nil {
		return nil, fmt.Errorf("store original: %w", err)
	}
	if err := s.repo.Create(ctx, img); err != nil {
		_ = s.blobs.Delete(ctx, img.OriginalKey())
		return nil, fmt.Errorf("store metadata: %w", err)
	}

	s.schedule(*img)
	s.logger.Info(ctx, "image uploaded", "owner", owner, "file_name", img.FileName, "size", img.OriginalFileSize)
	return img, nil
}

func (s *ImageService) schedule(img models.Image) {
	if s.delay < 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	key := jobKey(img.Owner, img.FileName)
	s.wg.Add(1)
	s.timers[key] = time.AfterFunc(s.delay, func() {
		defer s.wg.Done()
		s.mu.Lock()
		delete(s.timers, key)
		s.mu.Unlock()
		s.generate(context.Background(), img)
	})
}

// generate derives and stores the thumbnail of img.
func (s *ImageService) generate(ctx context.Context, img models.Image) {
	original, err := s.blobs.Get(ctx, img.OriginalKey())
	if err != nil {
		s.logger.Warn(ctx, "thumbnail source missing", "file_name", img.FileName, "error", err)
		return
	}

	status, size := models.ThumbnailCompleted, int64(0)
	thumb, err := imagex.Thumbnail(original.Data, s.thumbSize, s.thumbSize, thumbnailQuality)
	if err == nil {
		err = s.blobs.Put(ctx, img.ThumbnailKey(), blobs.Blob{Data: thumb, ContentType: "image/jpeg"})
	}
	if err != nil {
		s.logger.Warn(ctx, "thumbnail failed", "file_name", img.FileName, "error", err)
		status = models.ThumbnailFailed
	} else {
		size = int64(len(thumb))
	}

	if err := s.repo.SetThumbnail(ctx, img.Owner, img.FileName, status, size); err != nil {
		if errors.Is(err, shared.ErrorNotFound) {
			// deleted meanwhile
			_ = s.blobs.Delete(ctx, img.ThumbnailKey())
			return
		}
		s.logger.Error(ctx, "thumbnail status not saved", "file_name", img.FileName, "error", err)
		return
	}
	s.logger.Debug(ctx, "thumbnail done", "file_name", img.FileName, "status", status, "size", size)
}

// CompleteThumbnails runs every pending thumbnail job of owner now and
// returns how many were processed.
func (s *ImageService) CompleteThumbnails(ctx context.Context, owner string) (int, error) {
	list, err := s.repo.ListByOwner(ctx, owner)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, img := range list {
		if img.ThumbnailStatus != models.ThumbnailPending {
			continue
		}
		if !s.cancel(img.Owner, img.FileName) && s.delay >= 0 {
			// timer already fired, job is running
			continue
		}
		s.generate(ctx, img)
		n++
	}
	return n, nil
}

// cancel stops a scheduled job; it reports whether one was stopped.
func (s *ImageService) cancel(owner, fileName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := jobKey(owner, fileName)
	t, ok := s.timers[key]
	if !ok {
		return false
	}
	delete(s.timers, key)
	if t.Stop() {
		s.wg.Done()
		return true
	}
	return false
}

func (s *ImageService) List(ctx context.Context, owner string) ([]models.Image, error) {
	return s.repo.ListByOwner(ctx, owner)
}

// Download returns the original or the thumbnail of one image. A thumbnail
// that is not completed yet is reported as not found.
func (s *ImageService) Download(ctx context.Context, owner, fileName, folder string) (*models.Image, blobs.Blob, error) {
	img, err := s.repo.Get(ctx, owner, fileName)
	if err != nil {
		return nil, blobs.Blob{}, err
	}

	var key string
	switch folder {
	case FolderOriginal, "":
		key = img.OriginalKey()
	case FolderThumbnail:
		if img.ThumbnailStatus != models.ThumbnailCompleted {
			return nil, blobs.Blob{}, shared.ErrorNotFound
		}
		key = img.ThumbnailKey()
	default:
		return nil, blobs.Blob{}, shared.ErrorInvalidFolder
	}

	b, err := s.blobs.Get(ctx, key)
	if err != nil {
		return nil, blobs.Blob{}, err
	}
	return img, b, nil
}

// Delete removes the image, its thumbnail and any pending job.
func (s *ImageService) Delete(ctx context.Context, owner, fileName string) error {
	img, err := s.repo.Get(ctx, owner, fileName)
	if err != nil {
		return err
	}

	s.cancel(owner, fileName)

	if err := s.repo.Delete(ctx, owner, fileName); err != nil {
		return err
	}
	for _, key := range []string{img.OriginalKey(), img.ThumbnailKey()} {
		if err := s.blobs.Delete(ctx, key); err != nil && !errors.Is(err, shared.ErrorNotFound) {
			s.logger.Warn(ctx, "blob not deleted", "key", key, "error", err)
		}
	}
	s.logger.Info(ctx, "image deleted", "owner", owner, "file_name", fileName)
	return nil
}

// Close cancels scheduled jobs and waits for running ones.
func (s *ImageService) Close() {
	s.mu.Lock()
	s.closed = true
	for key, t := range s.timers {
		if t.Stop() {
			s.wg.Done()
		}
		delete(s.timers, key)
	}
	s.mu.Unlock()

	s.wg.Wait()
}
