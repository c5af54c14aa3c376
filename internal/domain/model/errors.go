package model

import "errors"

// Sentinel kinds for normalization errors.
var (
	// ErrMalformedRecord marks a raw record missing its identity field.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrMalformedMessage marks a raw message that cannot be threaded:
	// it has no id, or lacks both a conversation id and a participant pair.
	ErrMalformedMessage = errors.New("malformed message")
)
