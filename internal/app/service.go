// Package app provides the core business service that implements the
// dependencies required by the HTTP API: listing queries, message
// ingestion and conversation threads, backed by the record repository.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/talentsync/talentsync/internal/adapters/mq/queue"
	"github.com/talentsync/talentsync/internal/adapters/mq/worker"
	"github.com/talentsync/talentsync/internal/adapters/refresh"
	"github.com/talentsync/talentsync/internal/adapters/repository"
	"github.com/talentsync/talentsync/internal/domain/conversation"
	"github.com/talentsync/talentsync/internal/domain/dedupe"
	"github.com/talentsync/talentsync/internal/domain/model"
	"github.com/talentsync/talentsync/internal/domain/query"
	"github.com/talentsync/talentsync/pkg/logger"
	"github.com/talentsync/talentsync/pkg/metrics"
)

// Service implements the API dependencies for the marketplace core.
//
// It keeps the normalized source collections in memory, refreshed by the
// repository subscription and the cron refresher; every browse request
// runs the query engine over a snapshot of those collections, so
// concurrent requests never share criteria state. Conversation
// aggregators are created lazily per viewing user.
type Service struct {
	mu sync.RWMutex

	// Core components
	store     repository.Store
	refresher *refresh.Refresher
	deduper   dedupe.Deduper
	queue     *queue.InMemoryQueue
	pool      *worker.Pool

	// Normalized source collections
	jobs        []model.Job
	freelancers []model.Freelancer

	// Per-user conversation state
	aggregators map[string]*conversation.Aggregator

	// Configuration
	redisAddr       string
	redisPassword   string
	redisDB         int
	sqlitePath      string
	refreshInterval time.Duration
	dedupeSize      int
	defaultPageSize int
	maxPageSize     int
	queueSize       int
	workerCount     int

	// State
	started bool
	unsubs  []func()

	logger logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		aggregators:     make(map[string]*conversation.Aggregator),
		sqlitePath:      "talentsync.db",
		refreshInterval: 5 * time.Minute,
		dedupeSize:      50_000,
		defaultPageSize: 10,
		maxPageSize:     100,
		queueSize:       10_000,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the stores, loads the initial collections and starts
// the refresher and change subscriptions.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.mu.Unlock()

	s.logger.Info(ctx, "starting marketplace service...")

	if s.store == nil {
		store, err := s.buildStore(ctx)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.store = store
		s.mu.Unlock()
	}

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))

	// Inbound messages flow through a bounded queue into the worker pool,
	// which persists each one and merges it into the live threads.
	s.queue = queue.NewInMemoryQueue(
		queue.WithCapacity(s.queueSize),
		queue.WithBufferSize(s.queueSize),
	)
	s.pool = worker.NewPool(s.workerCount, s.queue, s.store, s)
	s.pool.Start(ctx)

	// Pull-based refresh keeps listings converging even without pub/sub.
	s.refresher = refresh.New(s.store, s, s.refreshInterval, s.logger.Named("refresh"))
	s.refresher.RunCycle(ctx)
	if err := s.refresher.Start(ctx); err != nil {
		return fmt.Errorf("start refresher: %w", err)
	}

	s.subscribe(ctx)

	s.mu.Lock()
	s.started = true
	s.mu.Unlock()

	s.logger.Info(ctx, "marketplace service started",
		logger.Int("jobs", s.JobCount()),
		logger.Int("freelancers", s.FreelancerCount()),
	)
	return nil
}

// buildStore connects the primary and fallback backends. A missing or
// unreachable Redis degrades to the local store instead of failing start.
func (s *Service) buildStore(ctx context.Context) (repository.Store, error) {
	local, err := repository.NewSQLiteStore(s.sqlitePath, s.logger.Named("sqlite"))
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	var primary repository.Store
	if s.redisAddr != "" {
		remote, err := repository.NewRedisStore(ctx, s.redisAddr, s.redisPassword, s.redisDB, s.logger.Named("redis"))
		if err != nil {
			s.logger.Warn(ctx, "remote store unavailable, running on local fallback", logger.Error(err))
		} else {
			primary = remote
		}
	}

	return repository.NewFailover(primary, local, s.logger.Named("repository")), nil
}

// subscribe registers change listeners on the primary store. Listings
// reload wholesale; message changes re-load only the affected users.
func (s *Service) subscribe(ctx context.Context) {
	sub, ok := s.store.(repository.Subscriber)
	if !ok {
		return
	}

	listingChanged := func(repository.Kind) { s.refresher.RunCycle(ctx) }
	for _, kind := range []repository.Kind{repository.KindJob, repository.KindFreelancer} {
		unsub, err := sub.Subscribe(ctx, kind, listingChanged)
		if err != nil {
			if !errors.Is(err, repository.ErrSubscribeUnsupported) {
				s.logger.Warn(ctx, "subscription unavailable", logger.String("kind", string(kind)), logger.Error(err))
			}
			continue
		}
		s.unsubs = append(s.unsubs, unsub)
	}

	unsub, err := sub.Subscribe(ctx, repository.KindMessage, func(repository.Kind) {
		s.refreshAggregators(ctx)
	})
	if err == nil {
		s.unsubs = append(s.unsubs, unsub)
	} else if !errors.Is(err, repository.ErrSubscribeUnsupported) {
		s.logger.Warn(ctx, "message subscription unavailable", logger.Error(err))
	}
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping marketplace service...")

	for _, unsub := range s.unsubs {
		unsub()
	}
	s.unsubs = nil

	if s.refresher != nil {
		s.refresher.Stop()
	}
	if s.pool != nil {
		if err := s.pool.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "worker pool shutdown incomplete", logger.Error(err))
		}
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn(ctx, "closing store failed", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(ctx, "marketplace service stopped")
}

// ApplyJobs normalizes freshly loaded job documents and swaps them in as
// the browse source. Malformed records are skipped, never fatal.
func (s *Service) ApplyJobs(ctx context.Context, raws []model.RawJob) {
	now := time.Now()
	jobs := make([]model.Job, 0, len(raws))
	for _, raw := range raws {
		job, err := model.NormalizeJob(raw, now)
		if err != nil {
			s.logger.Warn(ctx, "skipping malformed job record", logger.Error(err))
			continue
		}
		jobs = append(jobs, job)
	}

	s.mu.Lock()
	s.jobs = jobs
	s.mu.Unlock()
	metrics.UpdateListingRecords("jobs", len(jobs))
}

// ApplyFreelancers normalizes freshly loaded freelancer documents and
// swaps them in as the browse source.
func (s *Service) ApplyFreelancers(ctx context.Context, raws []model.RawFreelancer) {
	now := time.Now()
	freelancers := make([]model.Freelancer, 0, len(raws))
	for _, raw := range raws {
		f, err := model.NormalizeFreelancer(raw, now)
		if err != nil {
			s.logger.Warn(ctx, "skipping malformed freelancer record", logger.Error(err))
			continue
		}
		freelancers = append(freelancers, f)
	}

	s.mu.Lock()
	s.freelancers = freelancers
	s.mu.Unlock()
	metrics.UpdateListingRecords("freelancers", len(freelancers))
}

// BrowseJobs runs the listing query engine over the current job
// collection: criteria applied with AND semantics, stable sort, and
// cumulative paging up to the requested page.
func (s *Service) BrowseJobs(ctx context.Context, c query.Criteria, sortKey query.SortKey, page, pageSize int) query.View[model.Job] {
	start := time.Now()

	s.mu.RLock()
	source := s.jobs
	s.mu.RUnlock()

	engine := query.NewJobEngine(source,
		query.WithPageSize(s.clampPageSize(pageSize)),
		query.WithSortKey(sortKey),
	)
	engine.SetCriteria(c)
	advanceTo(engine, page)

	view := engine.CurrentView()
	metrics.RecordListingQuery("jobs", float64(time.Since(start).Milliseconds()), view.TotalCount)
	return view
}

// BrowseFreelancers is the freelancer counterpart of BrowseJobs.
func (s *Service) BrowseFreelancers(ctx context.Context, c query.Criteria, sortKey query.SortKey, page, pageSize int) query.View[model.Freelancer] {
	start := time.Now()

	s.mu.RLock()
	source := s.freelancers
	s.mu.RUnlock()

	engine := query.NewFreelancerEngine(source,
		query.WithPageSize(s.clampPageSize(pageSize)),
		query.WithSortKey(sortKey),
	)
	engine.SetCriteria(c)
	advanceTo(engine, page)

	view := engine.CurrentView()
	metrics.RecordListingQuery("freelancers", float64(time.Since(start).Milliseconds()), view.TotalCount)
	return view
}

// advanceTo reveals pages until the engine reaches page or runs out.
func advanceTo[T any](engine *query.Engine[T], page int) {
	for p := 1; p < page; p++ {
		if !engine.LoadMore() {
			return
		}
	}
}

func (s *Service) clampPageSize(pageSize int) int {
	switch {
	case pageSize < 1:
		return s.defaultPageSize
	case pageSize > s.maxPageSize:
		return s.maxPageSize
	default:
		return pageSize
	}
}

// SeenAndRecord atomically checks whether a message id was seen at the
// ingestion boundary and records it if not.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordMessageDuplicate()
	}
	return seen
}

// Unrecord removes a message id from the seen set, allowing a retry
// after a failed persist.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the number of ids in the ingestion deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// IngestMessage validates one message, assigns it an id and hands it to
// the ingest queue. Returns the assigned id and whether the queue
// accepted it; a false return signals backpressure, not an invalid
// message. Structurally invalid messages are rejected up front.
func (s *Service) IngestMessage(ctx context.Context, raw model.RawMessage) (string, bool, error) {
	if raw.SenderID == "" || raw.ReceiverID == "" {
		metrics.RecordMessageMalformed()
		return "", false, fmt.Errorf("ingest: %w: no participant pair", model.ErrMalformedMessage)
	}
	if raw.ID == "" {
		raw.ID = ulid.Make().String()
	}
	if _, err := model.NormalizeMessage(raw, time.Now()); err != nil {
		metrics.RecordMessageMalformed()
		return "", false, err
	}

	if !s.queue.Enqueue(ctx, raw) {
		return raw.ID, false, nil
	}
	return raw.ID, true, nil
}

// MergeMessage merges a persisted message into the threads of any
// participant whose aggregator is live. Workers call this after a
// successful save.
func (s *Service) MergeMessage(ctx context.Context, raw model.RawMessage) {
	s.mu.RLock()
	senderAgg := s.aggregators[raw.SenderID]
	receiverAgg := s.aggregators[raw.ReceiverID]
	s.mu.RUnlock()

	for _, agg := range []*conversation.Aggregator{senderAgg, receiverAgg} {
		if agg != nil {
			agg.Ingest(ctx, []model.RawMessage{raw})
		}
	}
}

// Conversations returns the user's threads ordered by last activity,
// creating and hydrating the user's aggregator on first access.
func (s *Service) Conversations(ctx context.Context, userID string) ([]model.Conversation, error) {
	agg, err := s.aggregatorFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return agg.List(), nil
}

// MarkConversationRead flags the thread read in storage and in the
// user's aggregator.
func (s *Service) MarkConversationRead(ctx context.Context, userID, conversationID string) error {
	agg, err := s.aggregatorFor(ctx, userID)
	if err != nil {
		return err
	}
	if err := agg.MarkRead(conversationID); err != nil {
		return err
	}
	if err := s.store.MarkMessagesRead(ctx, conversationID, userID); err != nil {
		return fmt.Errorf("persist read state: %w", err)
	}
	return nil
}

// ClearConversation empties the thread in the user's aggregator. The
// stored messages survive for the other participant.
func (s *Service) ClearConversation(ctx context.Context, userID, conversationID string) error {
	agg, err := s.aggregatorFor(ctx, userID)
	if err != nil {
		return err
	}
	return agg.Clear(conversationID)
}

// aggregatorFor returns the user's aggregator, creating it and ingesting
// the user's stored messages on first access.
func (s *Service) aggregatorFor(ctx context.Context, userID string) (*conversation.Aggregator, error) {
	s.mu.RLock()
	agg, ok := s.aggregators[userID]
	s.mu.RUnlock()
	if ok {
		return agg, nil
	}

	raws, err := s.store.LoadMessages(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load messages for %s: %w", userID, err)
	}

	s.mu.Lock()
	if agg, ok = s.aggregators[userID]; !ok {
		agg = conversation.NewAggregator(userID,
			conversation.WithDeduper(dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))),
		)
		s.aggregators[userID] = agg
	}
	s.mu.Unlock()

	agg.Ingest(ctx, raws)
	return agg, nil
}

// refreshAggregators re-loads stored messages for every live aggregator.
// Per-user dedupers drop everything already merged.
func (s *Service) refreshAggregators(ctx context.Context) {
	s.mu.RLock()
	aggs := make([]*conversation.Aggregator, 0, len(s.aggregators))
	for _, agg := range s.aggregators {
		aggs = append(aggs, agg)
	}
	s.mu.RUnlock()

	for _, agg := range aggs {
		raws, err := s.store.LoadMessages(ctx, agg.UserID())
		if err != nil {
			s.logger.Warn(ctx, "refreshing conversations failed",
				logger.String("user", agg.UserID()),
				logger.Error(err),
			)
			continue
		}
		agg.Ingest(ctx, raws)
	}
}

// JobCount returns the size of the current job collection.
func (s *Service) JobCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

// FreelancerCount returns the size of the current freelancer collection.
func (s *Service) FreelancerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.freelancers)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conversations := 0
	unread := 0
	for _, agg := range s.aggregators {
		conversations += agg.Len()
		unread += agg.UnreadTotal()
	}
	metrics.UpdateConversations(conversations)
	metrics.UpdateUnreadMessages(unread)

	stats := map[string]interface{}{
		"started":       s.started,
		"jobs":          len(s.jobs),
		"freelancers":   len(s.freelancers),
		"activeUsers":   len(s.aggregators),
		"conversations": conversations,
		"unread":        unread,
	}
	if s.queue != nil {
		stats["queueLength"] = s.queue.Len(context.Background())
	}
	if s.pool != nil {
		stats["workerCount"] = s.pool.Size()
	}
	return stats
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore injects a pre-built repository, bypassing backend setup.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithRedis sets the connection parameters of the primary store.
func WithRedis(addr, password string, db int) Option {
	return func(s *Service) {
		s.redisAddr = addr
		s.redisPassword = password
		s.redisDB = db
	}
}

// WithSQLitePath sets the path of the local fallback database.
func WithSQLitePath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.sqlitePath = path
		}
	}
}

// WithRefreshInterval sets the period of the listing refresh cycle.
func WithRefreshInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.refreshInterval = interval
		}
	}
}

// WithDedupeSize sets the size of the deduplication caches.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithPageSizes sets the default and maximum listing page sizes.
func WithPageSizes(def, max int) Option {
	return func(s *Service) {
		if def > 0 {
			s.defaultPageSize = def
		}
		if max > 0 {
			s.maxPageSize = max
		}
	}
}

// WithWorkerCount sets the number of ingest worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the ingest queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}
