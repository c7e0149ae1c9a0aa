// Package common holds constants and helpers shared by the client and the
// gallery backend.
package common

const (
	// AuthorizationHeaderName carries the bearer token on authenticated calls.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the token inside the Authorization header.
	BearerPrefix = "Bearer "

	// RequestIDHeaderName correlates client log lines with backend ones.
	RequestIDHeaderName = "X-Request-ID"

	// UploadFieldName is the multipart field the image service reads the file from.
	UploadFieldName = "image"
)
