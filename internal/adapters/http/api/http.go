// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/talentsync/talentsync/internal/domain/dedupe"
	"github.com/talentsync/talentsync/internal/domain/model"
	"github.com/talentsync/talentsync/internal/domain/query"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Listing queries over the current collections.
	BrowseJobs(ctx context.Context, c query.Criteria, sortKey query.SortKey, page, pageSize int) query.View[model.Job]
	BrowseFreelancers(ctx context.Context, c query.Criteria, sortKey query.SortKey, page, pageSize int) query.View[model.Freelancer]

	// IngestMessage queues one message for persistence and thread
	// merging. Returns the assigned id and false on backpressure.
	IngestMessage(ctx context.Context, raw model.RawMessage) (string, bool, error)

	// Conversation operations act on the viewing user's threads.
	Conversations(ctx context.Context, userID string) ([]model.Conversation, error)
	MarkConversationRead(ctx context.Context, userID, conversationID string) error
	ClearConversation(ctx context.Context, userID, conversationID string) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler        *HealthHandler
	statsHandler         *StatsHandler
	jobsHandler          *JobsHandler
	freelancersHandler   *FreelancersHandler
	messagesHandler      *MessagesHandler
	conversationsHandler *ConversationsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:        NewHealthHandler(),
		statsHandler:         NewStatsHandler(statsProvider),
		jobsHandler:          NewJobsHandler(deps),
		freelancersHandler:   NewFreelancersHandler(deps),
		messagesHandler:      NewMessagesHandler(deps),
		conversationsHandler: NewConversationsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/jobs", MetricsMiddleware(s.jobsHandler.HandleGetJobs, "jobs"))
	mux.HandleFunc("/freelancers", MetricsMiddleware(s.freelancersHandler.HandleGetFreelancers, "freelancers"))
	mux.HandleFunc("/messages", MetricsMiddleware(s.messagesHandler.HandlePostMessage, "messages"))
	mux.HandleFunc("/conversations", MetricsMiddleware(s.conversationsHandler.HandleGetConversations, "conversations"))
	mux.HandleFunc("/conversations/", MetricsMiddleware(s.conversationsHandler.HandleConversationAction, "conversation_action"))
}

// messageRequest mirrors the wire schema for POST /messages.
type messageRequest struct {
	MessageID  string `json:"message_id"`
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"receiver_id"`
	Content    string `json:"content"`
	TS         string `json:"ts"`
}

func (m messageRequest) validate() error {
	switch {
	case strings.TrimSpace(m.SenderID) == "":
		return errors.New("missing sender_id")
	case strings.TrimSpace(m.ReceiverID) == "":
		return errors.New("missing receiver_id")
	case strings.TrimSpace(m.Content) == "":
		return errors.New("missing content")
	}
	if m.TS != "" {
		if _, err := time.Parse(time.RFC3339, m.TS); err != nil {
			return errors.New("invalid ts; must be RFC3339")
		}
	}
	return nil
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
	MessageID string `json:"message_id,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound translates upstream not-found conditions to 404 without
// importing every domain package's sentinel.
func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}
