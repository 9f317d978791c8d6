package gemini

import "errors"

// Package-specific errors
var (
	// ErrEmptyTopic is returned when drug generation is requested with no topic.
	ErrEmptyTopic = errors.New("topic cannot be empty")
)
