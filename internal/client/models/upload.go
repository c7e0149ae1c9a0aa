package models

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/gophgallery/internal/imagex"
)

// FileCandidate is a file offered for upload: a name, a size (negative when
// unknown), a declared media type and a way to (re)open its content.
type FileCandidate struct {
	Name      string
	Size      int64
	MediaType string
	Open      func() (io.ReadCloser, error)
}

// LocalFile builds a FileCandidate for a file on disk, declaring its media
// type from the extension or, failing that, from its first bytes.
func LocalFile(path string) (FileCandidate, error) {
	f, err := os.Open(path)
	if err != nil {
		return FileCandidate{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return FileCandidate{}, err
	}
	if info.IsDir() {
		return FileCandidate{}, fmt.Errorf("%s is a directory", path)
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return FileCandidate{}, err
	}

	return FileCandidate{
		Name:      filepath.Base(path),
		Size:      info.Size(),
		MediaType: imagex.DetectMediaType(path, head[:n]),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// MemoryFile builds a FileCandidate over an in-memory payload.
func MemoryFile(name, mediaType string, data []byte) FileCandidate {
	return FileCandidate{
		Name:      name,
		Size:      int64(len(data)),
		MediaType: mediaType,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// UploadOutcome is the state of one upload attempt.
type UploadOutcome int

const (
	UploadInProgress UploadOutcome = iota
	UploadSucceeded
	UploadFailed
	UploadSessionExpired
)

func (o UploadOutcome) String() string {
	switch o {
	case UploadInProgress:
		return "in-progress"
	case UploadSucceeded:
		return "succeeded"
	case UploadFailed:
		return "failed"
	case UploadSessionExpired:
		return "session-expired"
	default:
		return fmt.Sprintf("UploadOutcome(%d)", int(o))
	}
}

// UploadEvent is one element of an upload's event stream: zero or more
// progress events (Outcome == UploadInProgress) followed by exactly one
// terminal event.
type UploadEvent struct {
	Outcome  UploadOutcome
	Progress int
	Err      error

	// RefreshErr is set on a successful upload when the follow-up list
	// refresh failed for a reason other than session expiry.
	RefreshErr error
}

// Terminal reports whether e ends the stream.
func (e UploadEvent) Terminal() bool {
	return e.Outcome != UploadInProgress
}
