// Package repository defines the record repository contract and its
// document-store implementations. The domain engines never talk to a
// backend directly: they consume raw records loaded through this
// interface and normalized at the application boundary.
package repository

import (
	"context"

	"github.com/talentsync/talentsync/internal/domain/model"
)

// Kind names a record collection.
type Kind string

const (
	KindJob        Kind = "jobs"
	KindFreelancer Kind = "freelancers"
	KindMessage    Kind = "messages"
)

// Store provides read/write access to marketplace documents. Load
// methods return raw shapes; normalization happens exactly once, at the
// application layer, after loading.
type Store interface {
	LoadJobs(ctx context.Context) ([]model.RawJob, error)
	LoadFreelancers(ctx context.Context) ([]model.RawFreelancer, error)
	// LoadMessages returns every message the user sent or received.
	LoadMessages(ctx context.Context, userID string) ([]model.RawMessage, error)

	// Save methods mint an id when the document has none and return the
	// id the document was stored under.
	SaveJob(ctx context.Context, raw model.RawJob) (string, error)
	SaveFreelancer(ctx context.Context, raw model.RawFreelancer) (string, error)
	SaveMessage(ctx context.Context, raw model.RawMessage) (string, error)

	// MarkMessagesRead flags every message in the conversation that was
	// not sent by reader as read.
	MarkMessagesRead(ctx context.Context, conversationID, readerID string) error

	Ping(ctx context.Context) error
	Close() error
}

// Subscriber is the optional push capability of a store: onChange fires
// whenever a document of the kind is written. Callers fall back to
// periodic refresh when the store does not implement it.
type Subscriber interface {
	Subscribe(ctx context.Context, kind Kind, onChange func(Kind)) (func(), error)
}
