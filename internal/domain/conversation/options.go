package conversation

import (
	"time"

	"github.com/talentsync/talentsync/internal/domain/dedupe"
)

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithDeduper sets the message-id deduper. Useful for sharing one seen
// set between the aggregator and the ingestion endpoint.
func WithDeduper(d dedupe.Deduper) Option {
	return func(a *Aggregator) {
		if d != nil {
			a.deduper = d
		}
	}
}

// WithClock overrides the time source used for normalization defaults.
func WithClock(clock func() time.Time) Option {
	return func(a *Aggregator) {
		if clock != nil {
			a.clock = clock
		}
	}
}
