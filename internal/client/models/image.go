package models

import (
	"github.com/dmitrijs2005/gophgallery/internal/timex"
)

// ThumbnailStatus is the server-side processing state of an image's thumbnail.
type ThumbnailStatus string

const (
	ThumbnailPending   ThumbnailStatus = "pending"
	ThumbnailCompleted ThumbnailStatus = "completed"
)

// Completed reports whether the thumbnail is done. Any status other than
// "completed", including ones this client does not know, counts as pending.
func (s ThumbnailStatus) Completed() bool {
	return s == ThumbnailCompleted
}

// ImageRecord is one row of the image listing.
//
// FileSize is the size of the derived thumbnail and means nothing until
// ThumbnailStatus is completed.
type ImageRecord struct {
	FileName         string          `json:"fileName"`
	OriginalFileName string          `json:"originalFileName"`
	OriginalFileSize int64           `json:"originalFileSize"`
	FileSize         int64           `json:"fileSize"`
	UploadDate       timex.Timestamp `json:"uploadDate"`
	ThumbnailStatus  ThumbnailStatus `json:"thumbnailStatus"`
}

// ThumbnailSize returns FileSize and whether it is final.
func (r ImageRecord) ThumbnailSize() (int64, bool) {
	if !r.ThumbnailStatus.Completed() {
		return 0, false
	}
	return r.FileSize, true
}

// ImageListSnapshot is a full listing as returned by the image service.
// Files keeps the server's order.
type ImageListSnapshot struct {
	Files      []ImageRecord `json:"files"`
	ImageCount int           `json:"imageCount"`
}

// PendingCount is the number of records whose thumbnail is not completed.
func (s *ImageListSnapshot) PendingCount() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, f := range s.Files {
		if !f.ThumbnailStatus.Completed() {
			n++
		}
	}
	return n
}

// HasPending reports whether any record is still being processed.
func (s *ImageListSnapshot) HasPending() bool {
	return s.PendingCount() > 0
}

// Find returns the record stored under fileName.
func (s *ImageListSnapshot) Find(fileName string) (ImageRecord, bool) {
	if s == nil {
		return ImageRecord{}, false
	}
	for _, f := range s.Files {
		if f.FileName == fileName {
			return f, true
		}
	}
	return ImageRecord{}, false
}
