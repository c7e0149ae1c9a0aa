// Package sink saves downloaded images, either into a local directory or into
// an S3 bucket.
package sink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/gophgallery/internal/filex"
)

var ErrBadName = errors.New("sink: unusable file name")

// cleanName reduces a server-provided name to a single path element.
func cleanName(name string) (string, error) {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == ".." || name == "" {
		return "", ErrBadName
	}
	return name, nil
}

// FileSink writes into Dir, created on first use.
type FileSink struct {
	Dir string
}

func NewFileSink(dir string) *FileSink {
	return &FileSink{Dir: dir}
}

// Save writes r to Dir/name atomically and returns the absolute path.
// An existing file of the same name is replaced.
func (s *FileSink) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	name, err := cleanName(name)
	if err != nil {
		return "", err
	}
	dir, err := filex.EnsureSubdDir(s.Dir)
	if err != nil {
		return "", err
	}
	path, _, err := filex.WriteFileAtomic(dir, name, ctxReader{ctx: ctx, r: r})
	if err != nil {
		return "", err
	}
	return path, nil
}

// ctxReader stops a copy once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

func describe(where string, n int64) string {
	return fmt.Sprintf("%s (%d bytes)", where, n)
}
