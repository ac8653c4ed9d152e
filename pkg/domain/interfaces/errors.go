package interfaces

import "errors"

// Errors returned by repository and collaborator implementations.
var (
	ErrNotFound     = errors.New("not found")
	ErrNotConnected = errors.New("not connected")
)
