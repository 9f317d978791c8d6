package service

import "errors"

// Common service-level errors
var (
	// ErrNotOwned indicates the resource belongs to a different user.
	ErrNotOwned = errors.New("resource not owned by user")

	// ErrEmptyQuizPool indicates no drugs matched the requested quiz scope.
	ErrEmptyQuizPool = errors.New("no drugs available for quiz generation")
)
