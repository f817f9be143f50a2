package model

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrTaskNotFound    = errors.New("task not found")
	ErrNoteNotFound    = errors.New("note not found")

	// ErrUnauthorized means the caller's role on the project does not
	// permit the requested operation.
	ErrUnauthorized = errors.New("action not permitted")

	// ErrValidation covers malformed input that survived upstream
	// request validation, e.g. an unknown task status.
	ErrValidation = errors.New("validation failed")

	// ErrCascadeIncomplete means a cascade deletion failed partway.
	// The parent record is still in place and the delete can be retried.
	ErrCascadeIncomplete = errors.New("cascade deletion incomplete")
)
