package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/talentsync/talentsync/internal/domain/model"
	"github.com/talentsync/talentsync/pkg/logger"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "talentsync.db"), logger.Named("test"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_JobRoundtrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.SaveJob(ctx, model.RawJob{
		ID:     "j1",
		Title:  "Go Backend Engineer",
		Skills: []string{"go", "postgresql"},
	})
	if err != nil {
		t.Fatalf("save job: %v", err)
	}
	if id != "j1" {
		t.Errorf("expected j1, got %s", id)
	}

	jobs, err := s.LoadJobs(ctx)
	if err != nil {
		t.Fatalf("load jobs: %v", err)
	}
	if len(jobs) != 1 || jobs[0].Title != "Go Backend Engineer" {
		t.Errorf("unexpected jobs: %v", jobs)
	}
	if len(jobs[0].Skills) != 2 {
		t.Errorf("expected skills to survive, got %v", jobs[0].Skills)
	}
}

func TestSQLiteStore_SaveJobMintsID(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.SaveJob(ctx, model.RawJob{Title: "Untitled"})
	if err != nil {
		t.Fatalf("save job: %v", err)
	}
	if id == "" {
		t.Error("expected a minted id")
	}
}

func TestSQLiteStore_SaveJobUpserts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, err := s.SaveJob(ctx, model.RawJob{ID: "j1", Title: "Old Title"}); err != nil {
		t.Fatalf("save job: %v", err)
	}
	if _, err := s.SaveJob(ctx, model.RawJob{ID: "j1", Title: "New Title"}); err != nil {
		t.Fatalf("save job: %v", err)
	}

	jobs, err := s.LoadJobs(ctx)
	if err != nil {
		t.Fatalf("load jobs: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job after upsert, got %d", len(jobs))
	}
	if jobs[0].Title != "New Title" {
		t.Errorf("expected updated title, got %s", jobs[0].Title)
	}
}

func TestSQLiteStore_FreelancerRoundtrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	rate := 85.0
	rating := 4.8
	if _, err := s.SaveFreelancer(ctx, model.RawFreelancer{
		ID:         "f1",
		Name:       "Sofia Petrova",
		HourlyRate: &rate,
		Rating:     &rating,
	}); err != nil {
		t.Fatalf("save freelancer: %v", err)
	}

	freelancers, err := s.LoadFreelancers(ctx)
	if err != nil {
		t.Fatalf("load freelancers: %v", err)
	}
	if len(freelancers) != 1 {
		t.Fatalf("expected 1 freelancer, got %d", len(freelancers))
	}
	if freelancers[0].HourlyRate == nil || *freelancers[0].HourlyRate != 85.0 {
		t.Errorf("expected hourly rate to survive, got %v", freelancers[0].HourlyRate)
	}
}

func TestSQLiteStore_SaveMessageDerivesConversation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.SaveMessage(ctx, model.RawMessage{
		SenderID:   "user-b",
		ReceiverID: "user-a",
		Content:    "hello",
	})
	if err != nil {
		t.Fatalf("save message: %v", err)
	}
	if id == "" {
		t.Error("expected a minted id")
	}

	msgs, err := s.LoadMessages(ctx, "user-a")
	if err != nil {
		t.Fatalf("load messages: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	// Participants sort before joining so both directions share a thread
	if msgs[0].ConversationID != "user-a_user-b" {
		t.Errorf("unexpected conversation id: %s", msgs[0].ConversationID)
	}
	if msgs[0].Timestamp == "" {
		t.Error("expected a timestamp to be stamped")
	}
}

func TestSQLiteStore_LoadMessagesScopedToUser(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	seed := []model.RawMessage{
		{ID: "m1", SenderID: "a", ReceiverID: "b", Content: "a to b"},
		{ID: "m2", SenderID: "b", ReceiverID: "a", Content: "b to a"},
		{ID: "m3", SenderID: "c", ReceiverID: "d", Content: "not ours"},
	}
	for _, m := range seed {
		if _, err := s.SaveMessage(ctx, m); err != nil {
			t.Fatalf("save message %s: %v", m.ID, err)
		}
	}

	msgs, err := s.LoadMessages(ctx, "a")
	if err != nil {
		t.Fatalf("load messages: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages for user a, got %d", len(msgs))
	}
	for _, m := range msgs {
		if m.SenderID != "a" && m.ReceiverID != "a" {
			t.Errorf("message %s does not involve user a", m.ID)
		}
	}
}

func TestSQLiteStore_MarkMessagesRead(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	seed := []model.RawMessage{
		{ID: "m1", SenderID: "a", ReceiverID: "b", Content: "one"},
		{ID: "m2", SenderID: "b", ReceiverID: "a", Content: "two"},
	}
	for _, m := range seed {
		if _, err := s.SaveMessage(ctx, m); err != nil {
			t.Fatalf("save message %s: %v", m.ID, err)
		}
	}

	if err := s.MarkMessagesRead(ctx, "a_b", "a"); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	msgs, err := s.LoadMessages(ctx, "a")
	if err != nil {
		t.Fatalf("load messages: %v", err)
	}
	for _, m := range msgs {
		switch m.ID {
		case "m1":
			// a's own message stays untouched
			if m.Read {
				t.Error("expected sender's message to stay unread")
			}
		case "m2":
			if !m.Read {
				t.Error("expected partner's message to be read")
			}
		}
	}
}

func TestSQLiteStore_Ping(t *testing.T) {
	s := newTestStore(t)
	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("unexpected ping error: %v", err)
	}
}
