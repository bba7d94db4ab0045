package core

import "errors"

// Common errors.
var (
	ErrNotFound = errors.New("post not found")
	ErrEmptyID  = errors.New("post ID cannot be empty")
)
