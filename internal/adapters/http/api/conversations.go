// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/talentsync/talentsync/internal/domain/model"
)

// ConversationDependencies defines the interface for conversation operations.
type ConversationDependencies interface {
	Conversations(ctx context.Context, userID string) ([]model.Conversation, error)
	MarkConversationRead(ctx context.Context, userID, conversationID string) error
	ClearConversation(ctx context.Context, userID, conversationID string) error
}

// ConversationsHandler handles conversation requests.
type ConversationsHandler struct {
	deps ConversationDependencies
}

// NewConversationsHandler creates a new conversations handler.
func NewConversationsHandler(deps ConversationDependencies) *ConversationsHandler {
	return &ConversationsHandler{deps: deps}
}

// HandleGetConversations handles GET /conversations?user_id=U requests.
func (h *ConversationsHandler) HandleGetConversations(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_conversations"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	convs, err := h.deps.Conversations(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, convs)
}

// HandleConversationAction handles POST /conversations/{id}/read and
// POST /conversations/{id}/clear requests.
func (h *ConversationsHandler) HandleConversationAction(w http.ResponseWriter, r *http.Request) {
	const op = "api.conversation_action"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	// Extract {id}/{action} after /conversations/
	path := strings.TrimPrefix(r.URL.Path, "/conversations/")
	conversationID, action, ok := strings.Cut(path, "/")
	if !ok || conversationID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	var err error
	switch action {
	case "read":
		err = h.deps.MarkConversationRead(r.Context(), userID, conversationID)
	case "clear":
		err = h.deps.ClearConversation(r.Context(), userID, conversationID)
	default:
		http.NotFound(w, r)
		return
	}
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "ok"})
}
