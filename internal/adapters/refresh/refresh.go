// Package refresh wires up the cron job that periodically re-loads
// listings from the record repository. It is the pull-based counterpart
// to the store's push subscription: deployments without pub/sub still
// converge on fresh data every cycle.
package refresh

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/talentsync/talentsync/internal/adapters/repository"
	"github.com/talentsync/talentsync/internal/domain/model"
	"github.com/talentsync/talentsync/pkg/logger"
	"github.com/talentsync/talentsync/pkg/metrics"
)

// Sink receives freshly loaded raw records. The application layer
// normalizes them and swaps them into the query engines.
type Sink interface {
	ApplyJobs(ctx context.Context, raws []model.RawJob)
	ApplyFreelancers(ctx context.Context, raws []model.RawFreelancer)
}

// Refresher wraps robfig/cron and manages the reload loop.
type Refresher struct {
	cron  *cron.Cron
	store repository.Store
	sink  Sink
	spec  string // cron spec, e.g. "@every 5m"
	log   logger.Logger
}

// New creates a Refresher that fires every interval.
func New(store repository.Store, sink Sink, interval time.Duration, log logger.Logger) *Refresher {
	return &Refresher{
		cron:  cron.New(),
		store: store,
		sink:  sink,
		spec:  fmt.Sprintf("@every %s", interval),
		log:   log,
	}
}

// Start registers the job and starts the scheduler. Callers wanting the
// listings populated before serving should RunCycle once first.
func (r *Refresher) Start(ctx context.Context) error {
	_, err := r.cron.AddFunc(r.spec, func() {
		r.RunCycle(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	r.cron.Start()
	r.log.Info(ctx, "refresh scheduler started", logger.String("spec", r.spec))
	return nil
}

// Stop gracefully shuts down the scheduler.
func (r *Refresher) Stop() {
	r.cron.Stop()
}

// RunCycle loads every listing collection once and hands the results to
// the sink. A failed load skips that collection and leaves the previous
// records in place.
func (r *Refresher) RunCycle(ctx context.Context) {
	r.log.Debug(ctx, "refresh cycle started")

	ok := true
	if jobs, err := r.store.LoadJobs(ctx); err != nil {
		ok = false
		metrics.RecordRefreshError()
		r.log.Warn(ctx, "refresh: loading jobs failed", logger.Error(err))
	} else {
		r.sink.ApplyJobs(ctx, jobs)
	}

	if freelancers, err := r.store.LoadFreelancers(ctx); err != nil {
		ok = false
		metrics.RecordRefreshError()
		r.log.Warn(ctx, "refresh: loading freelancers failed", logger.Error(err))
	} else {
		r.sink.ApplyFreelancers(ctx, freelancers)
	}

	if ok {
		metrics.RecordRefreshCycle()
	}
	r.log.Debug(ctx, "refresh cycle complete")
}
