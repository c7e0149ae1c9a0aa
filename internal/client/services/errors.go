package services

import (
	"errors"
	"fmt"
)

var (
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrRefreshInProgress  = errors.New("image list refresh already in progress")
	ErrNoFileSelected     = errors.New("no file selected")
	ErrUploadInProgress   = errors.New("an upload is in progress")
	ErrUploadCancelled    = errors.New("upload cancelled by logout")
	ErrPasswordsDontMatch = errors.New("passwords do not match")
)

// ValidationError is a client-side rejection of user input. It never
// involves a network call.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }
