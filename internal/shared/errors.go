// Package shared holds the sentinel errors of the gallery backend and a few
// helpers used by several of its packages.
package shared

import "errors"

var (
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// auth-specific errors
	ErrorInvalidToken          = errors.New("invalid token")
	ErrorInvalidLoginPassword  = errors.New("invalid login/password")
	ErrorInvalidLoginFormat    = errors.New("invalid login format")
	ErrorInvalidPasswordFormat = errors.New("invalid password format")

	// image-specific errors
	ErrorNotAnImage    = errors.New("file is not an image")
	ErrorFileTooLarge  = errors.New("file too large")
	ErrorInvalidFolder = errors.New("invalid folder name")

	ErrorInternal = errors.New("internal error")
)
