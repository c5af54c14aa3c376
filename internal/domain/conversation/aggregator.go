// Package conversation groups flat message records into per-pair threads,
// tracks read state, and merges new messages without duplicating threads
// or losing ordering.
package conversation

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/talentsync/talentsync/internal/domain/dedupe"
	"github.com/talentsync/talentsync/internal/domain/model"
)

// Aggregator maintains the conversation threads of a single user. The
// viewing user is fixed at construction: unread accounting always counts
// messages sent by the other participant. Aggregators make no distinction
// between an initial load and a live update, which is why ingestion must
// be idempotent under re-delivery of the same message id.
type Aggregator struct {
	mu sync.RWMutex

	userID  string
	convs   map[string]*model.Conversation
	deduper dedupe.Deduper
	clock   func() time.Time
}

// IngestResult reports the outcome of one message in an ingest batch.
// Err is nil for applied messages; Duplicate marks messages skipped
// because their id was already seen.
type IngestResult struct {
	MessageID      string
	ConversationID string
	Duplicate      bool
	Err            error
}

// NewAggregator creates an aggregator for the given viewing user.
func NewAggregator(userID string, opts ...Option) *Aggregator {
	a := &Aggregator{
		userID: userID,
		convs:  make(map[string]*model.Conversation),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.deduper == nil {
		a.deduper = dedupe.NewInMemoryDeduper()
	}
	return a
}

// UserID returns the viewing user this aggregator was built for.
func (a *Aggregator) UserID() string { return a.userID }

// Ingest merges a batch of raw messages into the thread state. Each
// message is normalized, deduplicated by id, appended to its (lazily
// created) conversation, and the conversation's ordering, last activity
// and unread count are recomputed. One malformed message never aborts the
// rest of the batch; it is skipped and reported in its result.
func (a *Aggregator) Ingest(ctx context.Context, raws []model.RawMessage) []IngestResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	results := make([]IngestResult, 0, len(raws))
	for _, raw := range raws {
		results = append(results, a.ingestOne(ctx, raw))
	}
	return results
}

func (a *Aggregator) ingestOne(ctx context.Context, raw model.RawMessage) IngestResult {
	msg, err := model.NormalizeMessage(raw, a.clock())
	if err != nil {
		return IngestResult{MessageID: raw.ID, Err: err}
	}

	if a.deduper.SeenAndRecord(ctx, msg.ID) {
		return IngestResult{MessageID: msg.ID, ConversationID: msg.ConversationID, Duplicate: true}
	}

	conv, ok := a.convs[msg.ConversationID]
	if !ok {
		conv = &model.Conversation{
			ID:           msg.ConversationID,
			Participants: participantsFor(msg),
		}
		a.convs[msg.ConversationID] = conv
	}

	conv.Messages = append(conv.Messages, msg)
	sort.SliceStable(conv.Messages, func(i, j int) bool {
		return conv.Messages[i].Timestamp.Before(conv.Messages[j].Timestamp)
	})
	a.recompute(conv)

	return IngestResult{MessageID: msg.ID, ConversationID: msg.ConversationID}
}

// MarkRead marks every message sent by the other participant as read and
// resets the unread count to zero.
func (a *Aggregator) MarkRead(conversationID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	conv, ok := a.convs[conversationID]
	if !ok {
		return fmt.Errorf("conversation %s: %w", conversationID, ErrNotFound)
	}
	for i := range conv.Messages {
		if conv.Messages[i].SenderID != a.userID {
			conv.Messages[i].Read = true
		}
	}
	conv.UnreadCount = 0
	return nil
}

// Clear empties a conversation's message list. The conversation container
// itself survives; its id stays claimed so a later re-delivery of the
// cleared messages does not resurrect them.
func (a *Aggregator) Clear(conversationID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	conv, ok := a.convs[conversationID]
	if !ok {
		return fmt.Errorf("conversation %s: %w", conversationID, ErrNotFound)
	}
	conv.Messages = nil
	conv.UnreadCount = 0
	return nil
}

// List returns the user's conversations ordered by last activity,
// newest first. The returned conversations are copies; mutating them
// does not affect aggregator state.
func (a *Aggregator) List() []model.Conversation {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]model.Conversation, 0, len(a.convs))
	for _, conv := range a.convs {
		out = append(out, copyConversation(conv))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastActivity.After(out[j].LastActivity)
	})
	return out
}

// Get returns a copy of one conversation.
func (a *Aggregator) Get(conversationID string) (model.Conversation, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	conv, ok := a.convs[conversationID]
	if !ok {
		return model.Conversation{}, fmt.Errorf("conversation %s: %w", conversationID, ErrNotFound)
	}
	return copyConversation(conv), nil
}

// UnreadTotal returns the unread message count summed over every thread.
func (a *Aggregator) UnreadTotal() int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	total := 0
	for _, conv := range a.convs {
		total += conv.UnreadCount
	}
	return total
}

// Len returns the number of conversations.
func (a *Aggregator) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.convs)
}

// recompute refreshes the derived fields of a conversation after a merge.
// Callers hold a.mu.
func (a *Aggregator) recompute(conv *model.Conversation) {
	conv.UnreadCount = 0
	for _, m := range conv.Messages {
		if m.Timestamp.After(conv.LastActivity) {
			conv.LastActivity = m.Timestamp
		}
		if m.SenderID != a.userID && !m.Read {
			conv.UnreadCount++
		}
	}
}

// participantsFor resolves the participant pair of a new conversation,
// preferring the message's explicit sender/receiver and falling back to
// splitting a derived conversation id.
func participantsFor(msg model.Message) []string {
	if msg.SenderID != "" && msg.ReceiverID != "" {
		return []string{msg.SenderID, msg.ReceiverID}
	}
	if parts, ok := model.ParticipantsOf(msg.ConversationID); ok {
		return parts
	}
	return nil
}

func copyConversation(conv *model.Conversation) model.Conversation {
	out := *conv
	out.Participants = append([]string(nil), conv.Participants...)
	out.Messages = append([]model.Message(nil), conv.Messages...)
	return out
}
