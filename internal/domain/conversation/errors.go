package conversation

import "errors"

// Sentinel kinds for aggregator errors.
var (
	ErrNotFound = errors.New("conversation not found")
)
