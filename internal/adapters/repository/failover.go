package repository

import (
	"context"
	"fmt"

	"github.com/talentsync/talentsync/internal/domain/model"
	"github.com/talentsync/talentsync/pkg/logger"
	"github.com/talentsync/talentsync/pkg/metrics"
)

// Failover composes a primary (remote) store with a local fallback behind
// the single Store interface the rest of the service depends on. Reads go
// to the primary and degrade to the fallback when it fails; writes go to
// the primary and are mirrored into the fallback so an offline restart
// still has data to serve. With no primary configured every operation
// runs on the fallback directly.
type Failover struct {
	primary  Store
	fallback Store
	log      logger.Logger
}

// NewFailover builds the composite store. primary may be nil.
func NewFailover(primary, fallback Store, log logger.Logger) *Failover {
	return &Failover{primary: primary, fallback: fallback, log: log}
}

// HasPrimary reports whether a remote store is configured.
func (f *Failover) HasPrimary() bool { return f.primary != nil }

func (f *Failover) LoadJobs(ctx context.Context) ([]model.RawJob, error) {
	if f.primary != nil {
		jobs, err := f.primary.LoadJobs(ctx)
		if err == nil {
			return jobs, nil
		}
		f.degrade(ctx, "load_jobs", err)
	}
	return f.fallback.LoadJobs(ctx)
}

func (f *Failover) LoadFreelancers(ctx context.Context) ([]model.RawFreelancer, error) {
	if f.primary != nil {
		freelancers, err := f.primary.LoadFreelancers(ctx)
		if err == nil {
			return freelancers, nil
		}
		f.degrade(ctx, "load_freelancers", err)
	}
	return f.fallback.LoadFreelancers(ctx)
}

func (f *Failover) LoadMessages(ctx context.Context, userID string) ([]model.RawMessage, error) {
	if f.primary != nil {
		msgs, err := f.primary.LoadMessages(ctx, userID)
		if err == nil {
			return msgs, nil
		}
		f.degrade(ctx, "load_messages", err)
	}
	return f.fallback.LoadMessages(ctx, userID)
}

func (f *Failover) SaveJob(ctx context.Context, raw model.RawJob) (string, error) {
	if f.primary != nil {
		id, err := f.primary.SaveJob(ctx, raw)
		if err == nil {
			raw.ID = id
			f.mirror(ctx, "save_job", func() error {
				_, err := f.fallback.SaveJob(ctx, raw)
				return err
			})
			return id, nil
		}
		f.degrade(ctx, "save_job", err)
	}
	return f.fallback.SaveJob(ctx, raw)
}

func (f *Failover) SaveFreelancer(ctx context.Context, raw model.RawFreelancer) (string, error) {
	if f.primary != nil {
		id, err := f.primary.SaveFreelancer(ctx, raw)
		if err == nil {
			raw.ID = id
			f.mirror(ctx, "save_freelancer", func() error {
				_, err := f.fallback.SaveFreelancer(ctx, raw)
				return err
			})
			return id, nil
		}
		f.degrade(ctx, "save_freelancer", err)
	}
	return f.fallback.SaveFreelancer(ctx, raw)
}

func (f *Failover) SaveMessage(ctx context.Context, raw model.RawMessage) (string, error) {
	if f.primary != nil {
		id, err := f.primary.SaveMessage(ctx, raw)
		if err == nil {
			raw.ID = id
			f.mirror(ctx, "save_message", func() error {
				_, err := f.fallback.SaveMessage(ctx, raw)
				return err
			})
			return id, nil
		}
		f.degrade(ctx, "save_message", err)
	}
	return f.fallback.SaveMessage(ctx, raw)
}

func (f *Failover) MarkMessagesRead(ctx context.Context, conversationID, readerID string) error {
	if f.primary != nil {
		err := f.primary.MarkMessagesRead(ctx, conversationID, readerID)
		if err == nil {
			f.mirror(ctx, "mark_read", func() error {
				return f.fallback.MarkMessagesRead(ctx, conversationID, readerID)
			})
			return nil
		}
		f.degrade(ctx, "mark_read", err)
	}
	return f.fallback.MarkMessagesRead(ctx, conversationID, readerID)
}

// Subscribe delegates to the primary when it supports push. Fallback-only
// deployments report ErrSubscribeUnsupported and rely on refresh cycles.
func (f *Failover) Subscribe(ctx context.Context, kind Kind, onChange func(Kind)) (func(), error) {
	sub, ok := f.primary.(Subscriber)
	if f.primary == nil || !ok {
		return nil, fmt.Errorf("subscribe %s: %w", kind, ErrSubscribeUnsupported)
	}
	return sub.Subscribe(ctx, kind, onChange)
}

func (f *Failover) Ping(ctx context.Context) error {
	if f.primary != nil {
		if err := f.primary.Ping(ctx); err == nil {
			return nil
		}
	}
	return f.fallback.Ping(ctx)
}

func (f *Failover) Close() error {
	var firstErr error
	if f.primary != nil {
		firstErr = f.primary.Close()
	}
	if err := f.fallback.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// degrade records a primary failure before the operation retries on the
// fallback store.
func (f *Failover) degrade(ctx context.Context, op string, err error) {
	metrics.RecordRepositoryFailover()
	f.log.Warn(ctx, "primary store failed, using fallback",
		logger.String("op", op),
		logger.Error(err),
	)
}

// mirror best-effort copies a successful primary write into the fallback.
func (f *Failover) mirror(ctx context.Context, op string, write func() error) {
	if err := write(); err != nil {
		f.log.Warn(ctx, "fallback mirror write failed",
			logger.String("op", op),
			logger.Error(err),
		)
	}
}
