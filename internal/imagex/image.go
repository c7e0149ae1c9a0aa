// Package imagex inspects and resizes images. The client uses it to validate
// and preview a staged file; the gallery backend uses it to build thumbnails.
package imagex

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// sniffLen is how many leading bytes http.DetectContentType looks at.
const sniffLen = 512

// IsImageMediaType reports whether a declared media type denotes an image.
func IsImageMediaType(mediaType string) bool {
	mt, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		mt = mediaType
	}
	return strings.HasPrefix(strings.ToLower(mt), "image/")
}

// DetectMediaType declares a media type for a file the way a browser would:
// from the extension first, then by sniffing the leading bytes.
func DetectMediaType(name string, head []byte) string {
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); byExt != "" {
		return byExt
	}
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	return http.DetectContentType(head)
}

// Preview summarizes a decoded image.
type Preview struct {
	Format string
	Width  int
	Height int
}

func (p Preview) String() string {
	return fmt.Sprintf("%s %dx%d", p.Format, p.Width, p.Height)
}

// Inspect decodes r and reports its format and dimensions.
func Inspect(r io.Reader) (Preview, error) {
	br := bufio.NewReaderSize(r, sniffLen)
	head, _ := br.Peek(sniffLen)
	format := "unknown"
	if ct := http.DetectContentType(head); strings.HasPrefix(ct, "image/") {
		format = strings.TrimPrefix(ct, "image/")
	}

	img, err := imaging.Decode(br)
	if err != nil {
		return Preview{}, fmt.Errorf("decode image: %w", err)
	}
	b := img.Bounds()
	return Preview{Format: format, Width: b.Dx(), Height: b.Dy()}, nil
}

// Thumbnail scales the image in data to fit within width x height and
// encodes it as JPEG.
func Thumbnail(data []byte, width, height, quality int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	thumb := imaging.Fit(img, width, height, imaging.Lanczos)

	var out bytes.Buffer
	if err := imaging.Encode(&out, thumb, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return out.Bytes(), nil
}
