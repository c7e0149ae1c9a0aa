// Package netx holds HTTP body helpers: a streaming multipart encoder with a
// known length and a reader that reports upload progress.
package netx

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// ProgressFunc receives upload progress as a whole percentage in [0, 100].
type ProgressFunc func(percent int)

type progressReader struct {
	r     io.Reader
	total int64
	read  int64
	last  int
	fn    ProgressFunc
}

// NewProgressReader wraps r so that fn is told how much of total has been
// consumed. Reported values strictly increase and never exceed 100.
// When total is unknown (<= 0) or fn is nil, r is returned unwrapped and no
// progress is reported at all.
func NewProgressReader(r io.Reader, total int64, fn ProgressFunc) io.Reader {
	if fn == nil || total <= 0 {
		return r
	}
	return &progressReader{r: r, total: total, last: -1, fn: fn}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		pct := int(math.Round(float64(p.read) * 100 / float64(p.total)))
		if pct > 100 {
			pct = 100
		}
		if pct > p.last {
			p.last = pct
			p.fn(pct)
		}
	}
	return n, err
}

// MultipartFile describes the single file part of an upload form.
// Size may be negative when unknown.
type MultipartFile struct {
	FieldName   string
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// NewMultipartBody streams f as a multipart/form-data body without buffering
// the file. It returns the body, its Content-Type header value and its exact
// length, or -1 when f.Size is unknown.
func NewMultipartBody(f MultipartFile) (io.Reader, string, int64, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(f.FieldName), quoteEscaper.Replace(f.FileName)))
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)

	if _, err := mw.CreatePart(h); err != nil {
		return nil, "", 0, fmt.Errorf("multipart header: %w", err)
	}
	head := append([]byte(nil), buf.Bytes()...)
	buf.Reset()

	if err := mw.Close(); err != nil {
		return nil, "", 0, fmt.Errorf("multipart trailer: %w", err)
	}
	tail := append([]byte(nil), buf.Bytes()...)

	length := int64(-1)
	if f.Size >= 0 {
		length = int64(len(head)) + f.Size + int64(len(tail))
	}

	body := io.MultiReader(bytes.NewReader(head), f.Body, bytes.NewReader(tail))
	return body, mw.FormDataContentType(), length, nil
}
