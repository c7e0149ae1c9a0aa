package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gophgallery/internal/client/client"
	"github.com/dmitrijs2005/gophgallery/internal/client/models"
	"github.com/dmitrijs2005/gophgallery/internal/logging"
)

// thumbnailPrefix is prepended to the saved name of thumbnail downloads.
const thumbnailPrefix = "thumb_"

// Sink stores a downloaded image under name and returns where it went.
type Sink interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}

// GalleryService deletes and downloads images of the signed-in user.
type GalleryService struct {
	client client.Client
	auth   AuthService
	poller *ImagePoller
	logger logging.Logger
}

func NewGalleryService(c client.Client, auth AuthService, poller *ImagePoller, logger logging.Logger) *GalleryService {
	return &GalleryService{client: c, auth: auth, poller: poller, logger: logger}
}

// Delete removes fileName and then refreshes the list once. A failing
// refresh is reported by the poller, not here.
func (s *GalleryService) Delete(ctx context.Context, fileName string) error {
	sess, err := currentSession(ctx, s.auth)
	if err != nil {
		return err
	}
	if err := s.client.DeleteImage(ctx, sess, fileName); err != nil {
		return expireOn(ctx, s.auth, sess, err, s.logger)
	}
	s.logger.Info(ctx, "image deleted", "file", fileName)

	if _, err := s.poller.Refresh(ctx); err != nil && !errors.Is(err, ErrRefreshInProgress) {
		s.logger.Debug(ctx, "refresh after delete failed", "error", err)
	}
	return nil
}

// Download fetches one rendition of fileName into sink. The saved name is
// the image's original file name when the current listing knows it.
func (s *GalleryService) Download(ctx context.Context, fileName string, folder models.Folder, sink Sink) (string, error) {
	sess, err := currentSession(ctx, s.auth)
	if err != nil {
		return "", err
	}
	if folder == "" {
		folder = models.FolderOriginal
	}

	rc, err := s.client.DownloadImage(ctx, sess, models.DownloadRequest{FileName: fileName, FolderName: folder})
	if err != nil {
		return "", expireOn(ctx, s.auth, sess, err, s.logger)
	}
	defer rc.Close()

	name := fileName
	if rec, ok := s.poller.Snapshot().Find(fileName); ok && rec.OriginalFileName != "" {
		name = rec.OriginalFileName
	}
	if folder == models.FolderThumbnail {
		name = thumbnailPrefix + name
	}

	where, err := sink.Save(ctx, name, rc)
	if err != nil {
		return "", fmt.Errorf("save %s: %w", name, err)
	}
	s.logger.Info(ctx, "image downloaded", "file", fileName, "folder", folder, "saved_to", where)
	return where, nil
}
