package models

import "time"

type ThumbnailStatus string

const (
	ThumbnailPending   ThumbnailStatus = "pending"
	ThumbnailCompleted ThumbnailStatus = "completed"
	ThumbnailFailed    ThumbnailStatus = "failed"
)

// Image is the metadata of one stored upload. FileName is the server-assigned
// unique name; blobs live in a blob store under OriginalKey and ThumbnailKey.
type Image struct {
	FileName         string
	Owner            string
	OriginalFileName string
	OriginalFileSize int64
	ContentType      string
	FileSize         int64
	UploadDate       time.Time
	ThumbnailStatus  ThumbnailStatus
}

// OriginalKey is the blob key of the uploaded bytes.
func (i Image) OriginalKey() string {
	return "original/" + i.Owner + "/" + i.FileName
}

// ThumbnailKey is the blob key of the derived thumbnail.
func (i Image) ThumbnailKey() string {
	return "thumbnail/" + i.Owner + "/" + i.FileName
}
