// Package cli provides the interactive gallery command-line client.
//
// It wires configuration, the local session database, the HTTP client and
// the client services into a REPL. A session saved by an earlier run is
// picked up on start.
//
// Key features:
//   - Register / Login / Logout, whoami
//   - List the gallery, with thumbnails polled until processed
//   - Select and upload an image with a progress bar
//   - Download originals or thumbnails to a directory or an S3 bucket
//   - Delete images
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
