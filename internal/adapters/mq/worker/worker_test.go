package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/talentsync/talentsync/internal/adapters/mq/queue"
	"github.com/talentsync/talentsync/internal/domain/model"
)

type stubPersister struct {
	mu    sync.Mutex
	saved []model.RawMessage
	err   error
}

func (s *stubPersister) SaveMessage(ctx context.Context, raw model.RawMessage) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	if raw.ID == "" {
		raw.ID = "minted"
	}
	s.saved = append(s.saved, raw)
	return raw.ID, nil
}

func (s *stubPersister) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

type stubMerger struct {
	mu     sync.Mutex
	merged []model.RawMessage
}

func (s *stubMerger) MergeMessage(ctx context.Context, raw model.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.merged = append(s.merged, raw)
}

func (s *stubMerger) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.merged)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestWorker_ProcessesMessages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := queue.NewInMemoryQueue(queue.WithCapacity(10))
	persister := &stubPersister{}
	merger := &stubMerger{}

	w := NewInMemoryWorker(q, persister, merger, WithName("test-worker"))
	go w.Run(ctx)

	q.Enqueue(ctx, model.RawMessage{ID: "m1", SenderID: "a", ReceiverID: "b", Content: "hi"})
	q.Enqueue(ctx, model.RawMessage{ID: "m2", SenderID: "b", ReceiverID: "a", Content: "yo"})

	waitFor(t, func() bool { return merger.count() == 2 })

	if persister.count() != 2 {
		t.Errorf("expected 2 persisted, got %d", persister.count())
	}

	shutdownCtx, c := context.WithTimeout(context.Background(), time.Second)
	defer c()
	if err := w.Shutdown(shutdownCtx); err != nil {
		t.Errorf("unexpected shutdown error: %v", err)
	}
}

func TestWorker_PersistFailureSkipsMerge(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := queue.NewInMemoryQueue(queue.WithCapacity(10))
	persister := &stubPersister{err: errors.New("store down")}
	merger := &stubMerger{}

	w := NewInMemoryWorker(q, persister, merger)
	go w.Run(ctx)

	q.Enqueue(ctx, model.RawMessage{ID: "m1", SenderID: "a", ReceiverID: "b"})

	// Give the worker a moment to pick the message up
	time.Sleep(50 * time.Millisecond)

	if merger.count() != 0 {
		t.Errorf("expected no merges after persist failure, got %d", merger.count())
	}
}

func TestPool_ProcessesAcrossWorkers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := queue.NewInMemoryQueue(queue.WithCapacity(100))
	persister := &stubPersister{}
	merger := &stubMerger{}

	pool := NewPool(4, q, persister, merger)
	if pool.Size() != 4 {
		t.Errorf("expected 4 workers, got %d", pool.Size())
	}
	pool.Start(ctx)

	for i := 0; i < 50; i++ {
		q.Enqueue(ctx, model.RawMessage{
			ID:         fmt.Sprintf("m%d", i),
			SenderID:   "a",
			ReceiverID: "b",
		})
	}

	waitFor(t, func() bool { return merger.count() == 50 })

	if err := pool.Shutdown(ctx); err != nil {
		t.Errorf("unexpected shutdown error: %v", err)
	}
}
