package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophgallery/internal/common"
	"github.com/dmitrijs2005/gophgallery/internal/logging"
	"github.com/google/uuid"
)

// Service names one of the two backends.
type Service int

const (
	AccountService Service = iota
	ImageService
)

func (s Service) String() string {
	if s == AccountService {
		return "account"
	}
	return "image"
}

// ServiceFor routes a path: everything under /auth/ belongs to the account
// service.
func ServiceFor(path string) Service {
	if strings.HasPrefix(path, "/auth/") {
		return AccountService
	}
	return ImageService
}

// RawBody is sent as-is with its own content type, without JSON encoding.
type RawBody struct {
	ContentType string
	Length      int64
	Reader      io.Reader
}

type HTTPClient struct {
	accountURL string
	imageURL   string
	// http carries the per-request timeout; streaming is used for uploads and
	// downloads, which are bounded by the caller's context only.
	http      *http.Client
	streaming *http.Client
	logger    logging.Logger
}

type Option func(*HTTPClient)

// WithTimeout bounds non-streaming calls.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.http.Timeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.logger = l }
}

// WithTransport replaces the underlying round tripper of both clients.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *HTTPClient) {
		c.http.Transport = rt
		c.streaming.Transport = rt
	}
}

func NewHTTPClient(accountURL, imageURL string, opts ...Option) (*HTTPClient, error) {
	acc, err := normalizeBaseURL(accountURL)
	if err != nil {
		return nil, fmt.Errorf("account service url: %w", err)
	}
	img, err := normalizeBaseURL(imageURL)
	if err != nil {
		return nil, fmt.Errorf("image service url: %w", err)
	}

	c := &HTTPClient{
		accountURL: acc,
		imageURL:   img,
		http:       &http.Client{Timeout: 30 * time.Second},
		streaming:  &http.Client{},
		logger:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func normalizeBaseURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q in %q", u.Scheme, raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("missing host in %q", raw)
	}
	return strings.TrimRight(u.String(), "/"), nil
}

func (c *HTTPClient) baseURL(s Service) string {
	if s == AccountService {
		return c.accountURL
	}
	return c.imageURL
}

// send builds and performs one request. body is JSON-encoded unless it is a
// RawBody. token, when non-empty, goes into the Authorization header.
func (c *HTTPClient) send(ctx context.Context, method, path string, body any, token string, streaming bool) (*http.Response, error) {
	var (
		reader      io.Reader
		contentType string
		length      int64 = -1
	)

	switch b := body.(type) {
	case nil:
	case RawBody:
		reader, contentType, length = b.Reader, b.ContentType, b.Length
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader, contentType, length = bytes.NewReader(data), "application/json", int64(len(data))
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL(ServiceFor(path))+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if reader != nil {
		req.ContentLength = length
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}
	requestID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, requestID)

	hc := c.http
	if streaming {
		hc = c.streaming
	}

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.logger.Warn(ctx, "request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return nil, &NetworkError{Op: method + " " + path, Err: err}
	}
	c.logger.Debug(ctx, "request done", "method", method, "path", path, "status", resp.StatusCode,
		"request_id", requestID, "elapsed", time.Since(start))
	return resp, nil
}

// Request performs a JSON call and returns the raw JSON body (nil when the
// body is empty). See the package documentation for the error classes.
func (c *HTTPClient) Request(ctx context.Context, method, path string, body any, token string) (json.RawMessage, error) {
	resp, err := c.send(ctx, method, path, body, token, false)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return parseResponse(resp, method+" "+path)
}

func parseResponse(resp *http.Response, op string) (json.RawMessage, error) {
	if resp.StatusCode == http.StatusForbidden {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, ErrSessionExpired
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}

	var parsed json.RawMessage
	if len(bytes.TrimSpace(data)) > 0 {
		if !json.Valid(data) {
			return nil, &MalformedResponseError{StatusCode: resp.StatusCode, Detail: "body is not JSON"}
		}
		parsed = data
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RequestFailedError{StatusCode: resp.StatusCode, Message: messageOf(parsed, resp.StatusCode)}
	}
	return parsed, nil
}

// messageOf picks the "message" field of a JSON error body.
func messageOf(body []byte, status int) string {
	var payload struct {
		Message string `json:"message"`
	}
	if len(body) > 0 && json.Unmarshal(body, &payload) == nil && payload.Message != "" {
		return payload.Message
	}
	return statusText(status)
}

// failure builds the error for a non-2xx response of a streaming call, whose
// body is reported verbatim. The body must not have been read yet.
func failure(resp *http.Response, op string) error {
	if resp.StatusCode == http.StatusForbidden {
		_, _ = io.Copy(io.Discard, resp.Body)
		return ErrSessionExpired
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil && !errors.Is(err, io.EOF) {
		return &NetworkError{Op: op, Err: err}
	}
	text := strings.TrimSpace(string(data))
	msg := messageOf(data, resp.StatusCode)
	if msg == statusText(resp.StatusCode) && text != "" && !json.Valid(data) {
		msg = text
	}
	return &RequestFailedError{StatusCode: resp.StatusCode, Message: msg, Body: text}
}

func decodeInto(raw json.RawMessage, v any, what string) error {
	if len(raw) == 0 {
		return &MalformedResponseError{StatusCode: http.StatusOK, Detail: what + ": empty body"}
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &MalformedResponseError{StatusCode: http.StatusOK, Detail: what, Err: err}
	}
	return nil
}
