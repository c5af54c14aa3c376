package model

import (
	"sort"
	"strings"
	"time"
)

// conversationIDSeparator joins the two participant ids of a thread.
const conversationIDSeparator = "_"

// Message is a single directed message between two users.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	ReceiverID     string    `json:"receiver_id"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
	Read           bool      `json:"read"`
}

// Conversation is an aggregated thread of messages between two participants.
// Messages are kept sorted by timestamp ascending.
type Conversation struct {
	ID           string    `json:"id"`
	Participants []string  `json:"participants"`
	Messages     []Message `json:"messages"`
	LastActivity time.Time `json:"last_activity"`
	UnreadCount  int       `json:"unread_count"`
}

// ConversationID derives the thread id for a pair of participants. The
// pair is unordered: both directions of a two-party exchange resolve to
// the same id.
func ConversationID(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return pair[0] + conversationIDSeparator + pair[1]
}

// ParticipantsOf splits a derived conversation id back into its
// participant ids. Returns false when the id is not in the derived form.
func ParticipantsOf(conversationID string) ([]string, bool) {
	parts := strings.Split(conversationID, conversationIDSeparator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, false
	}
	return parts, true
}
