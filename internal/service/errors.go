package service

import "errors"

// Workflow failures form a closed set. Callers match them with errors.Is;
// Reason gives the tagged name reported to clients.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrUploadFailed  = errors.New("upload failed")
	ErrPersistFailed = errors.New("persist failed")
)

// Failure reasons.
const (
	ReasonInvalid       = "invalid"
	ReasonNotFound      = "not_found"
	ReasonUnauthorized  = "unauthorized"
	ReasonUploadFailed  = "upload_failed"
	ReasonPersistFailed = "persist_failed"
)

// Reason returns the tagged failure reason of err, or "" for errors outside the workflow set.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return ReasonInvalid
	case errors.Is(err, ErrNotFound):
		return ReasonNotFound
	case errors.Is(err, ErrUnauthorized):
		return ReasonUnauthorized
	case errors.Is(err, ErrUploadFailed):
		return ReasonUploadFailed
	case errors.Is(err, ErrPersistFailed):
		return ReasonPersistFailed
	default:
		return ""
	}
}
