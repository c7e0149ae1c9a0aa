package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/gophgallery/internal/client/models"
	"github.com/dmitrijs2005/gophgallery/internal/netx"
)

// Client is the contract with the account and image services.
//
// Every authenticated call takes the session explicitly. A 403 from any call
// surfaces as ErrSessionExpired and nothing else.
type Client interface {
	Login(ctx context.Context, creds models.Credentials) (models.Session, error)
	Register(ctx context.Context, creds models.Credentials) (models.Session, error)
	ListImages(ctx context.Context, sess models.Session) (*models.ImageListSnapshot, error)
	// UploadImage sends one file as the multipart field "image". onProgress
	// may be nil; it is never called when the body length is unknown.
	UploadImage(ctx context.Context, sess models.Session, file models.FileCandidate, onProgress netx.ProgressFunc) error
	// DownloadImage returns the image bytes; the caller closes the reader.
	DownloadImage(ctx context.Context, sess models.Session, req models.DownloadRequest) (io.ReadCloser, error)
	DeleteImage(ctx context.Context, sess models.Session, fileName string) error
}
