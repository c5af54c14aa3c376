package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound             = errors.New("document not found")
	ErrSubscribeUnsupported = errors.New("store does not support subscriptions")
	ErrClosed               = errors.New("store closed")
)
