// Package client talks to the gophgallery backends over HTTP.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) covering the
//     account service (Login, Register) and the image service (ListImages,
//     UploadImage, DownloadImage, DeleteImage).
//  2. A concrete HTTP implementation (see HTTPClient) that routes /auth/ paths
//     to the account service and the rest to the image service, attaches the
//     bearer token, tags each call with an X-Request-ID and normalizes
//     responses.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) for the
//     session database, an SQLite file migrated with embedded goose scripts.
//
// # Error Handling
//
// Responses are classified in this order:
//   - 403: ErrSessionExpired, the body is not looked at.
//   - a non-empty body that is not valid JSON: *MalformedResponseError.
//   - any other non-2xx: *RequestFailedError with the body's "message" field
//     or the generic status text.
//
// Transport failures are *NetworkError. Context cancellation is returned as
// the context's own error. Nothing is retried.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. It keeps no session state of its
// own; all operations accept context.Context and honor cancellation.
package client
