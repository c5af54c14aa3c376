// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/talentsync/talentsync/internal/domain/dedupe"
	"github.com/talentsync/talentsync/internal/domain/model"
)

// MessageDependencies defines the interface for message ingestion.
type MessageDependencies interface {
	dedupe.Deduper
	IngestMessage(ctx context.Context, raw model.RawMessage) (string, bool, error)
}

// MessagesHandler handles message ingestion requests.
type MessagesHandler struct {
	deps MessageDependencies
}

// NewMessagesHandler creates a new messages handler.
func NewMessagesHandler(deps MessageDependencies) *MessagesHandler {
	return &MessagesHandler{deps: deps}
}

// HandlePostMessage handles POST /messages requests.
func (h *MessagesHandler) HandlePostMessage(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_message"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	// Idempotency check for client-supplied ids. Server-minted ids are
	// unique by construction and skip the deduper.
	if req.MessageID != "" && h.deps.SeenAndRecord(r.Context(), req.MessageID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true, MessageID: req.MessageID})
		return
	}

	id, accepted, err := h.deps.IngestMessage(r.Context(), model.RawMessage{
		ID:         req.MessageID,
		SenderID:   req.SenderID,
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
		Timestamp:  req.TS,
	})
	if err != nil {
		if req.MessageID != "" {
			// Roll back the seen status so the client can retry.
			h.deps.Unrecord(r.Context(), req.MessageID)
		}
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrRejected, err))
		return
	}
	if !accepted {
		if req.MessageID != "" {
			h.deps.Unrecord(r.Context(), req.MessageID)
		}
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false, MessageID: id})
}
