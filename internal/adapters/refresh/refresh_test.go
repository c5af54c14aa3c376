package refresh

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/talentsync/talentsync/internal/domain/model"
	"github.com/talentsync/talentsync/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

type fakeStore struct {
	jobs           []model.RawJob
	freelancers    []model.RawFreelancer
	jobsErr        error
	freelancersErr error
}

func (f *fakeStore) LoadJobs(ctx context.Context) ([]model.RawJob, error) {
	return f.jobs, f.jobsErr
}

func (f *fakeStore) LoadFreelancers(ctx context.Context) ([]model.RawFreelancer, error) {
	return f.freelancers, f.freelancersErr
}

func (f *fakeStore) LoadMessages(ctx context.Context, userID string) ([]model.RawMessage, error) {
	return nil, nil
}

func (f *fakeStore) SaveJob(ctx context.Context, raw model.RawJob) (string, error) {
	return raw.ID, nil
}

func (f *fakeStore) SaveFreelancer(ctx context.Context, raw model.RawFreelancer) (string, error) {
	return raw.ID, nil
}

func (f *fakeStore) SaveMessage(ctx context.Context, raw model.RawMessage) (string, error) {
	return raw.ID, nil
}

func (f *fakeStore) MarkMessagesRead(ctx context.Context, conversationID, readerID string) error {
	return nil
}

func (f *fakeStore) Ping(ctx context.Context) error { return nil }
func (f *fakeStore) Close() error                   { return nil }

type fakeSink struct {
	jobApplies        int
	freelancerApplies int
	lastJobs          []model.RawJob
}

func (s *fakeSink) ApplyJobs(ctx context.Context, raws []model.RawJob) {
	s.jobApplies++
	s.lastJobs = raws
}

func (s *fakeSink) ApplyFreelancers(ctx context.Context, raws []model.RawFreelancer) {
	s.freelancerApplies++
}

func TestRunCycle_AppliesBothCollections(t *testing.T) {
	store := &fakeStore{
		jobs:        []model.RawJob{{ID: "j1"}, {ID: "j2"}},
		freelancers: []model.RawFreelancer{{ID: "f1"}},
	}
	sink := &fakeSink{}
	r := New(store, sink, time.Minute, logger.Named("test"))

	r.RunCycle(context.Background())

	if sink.jobApplies != 1 || sink.freelancerApplies != 1 {
		t.Errorf("expected one apply per collection, got %d/%d", sink.jobApplies, sink.freelancerApplies)
	}
	if len(sink.lastJobs) != 2 {
		t.Errorf("expected 2 jobs applied, got %d", len(sink.lastJobs))
	}
}

func TestRunCycle_FailedLoadSkipsCollection(t *testing.T) {
	store := &fakeStore{
		jobsErr:     errors.New("store down"),
		freelancers: []model.RawFreelancer{{ID: "f1"}},
	}
	sink := &fakeSink{}
	r := New(store, sink, time.Minute, logger.Named("test"))

	r.RunCycle(context.Background())

	if sink.jobApplies != 0 {
		t.Errorf("expected no job apply after failed load, got %d", sink.jobApplies)
	}
	// the healthy collection still refreshes
	if sink.freelancerApplies != 1 {
		t.Errorf("expected freelancer apply, got %d", sink.freelancerApplies)
	}
}

func TestStartStop(t *testing.T) {
	store := &fakeStore{}
	r := New(store, &fakeSink{}, time.Hour, logger.Named("test"))

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	r.Stop()
}
