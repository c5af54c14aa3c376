// Package metrics provides Prometheus metrics for the TalentSync
// marketplace core service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus metric exposed by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Listing query metrics
	listingQueries      *prometheus.CounterVec
	listingQueryLatency *prometheus.HistogramVec
	listingResultSize   *prometheus.HistogramVec
	listingRecords      *prometheus.GaugeVec

	// Message / conversation metrics
	messagesIngested  prometheus.Counter
	messagesDuplicate prometheus.Counter
	messagesMalformed prometheus.Counter
	conversations     prometheus.Gauge
	unreadMessages    prometheus.Gauge

	// Record repository metrics
	repositoryOps       *prometheus.CounterVec
	repositoryErrors    *prometheus.CounterVec
	repositoryFailovers prometheus.Counter
	repositoryLatency   prometheus.Histogram

	// Refresh / subscription metrics
	refreshCycles      prometheus.Counter
	refreshErrors      prometheus.Counter
	subscriptionEvents prometheus.Counter

	// Ingest queue / worker metrics
	queueSize         prometheus.Gauge
	queueCapacity     prometheus.Gauge
	queueUtilization  prometheus.Gauge
	ingestLatency     prometheus.Histogram
	workerErrors      prometheus.Counter
	workerActiveCount prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "talentsync",
		subsystem:        "core",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.listingQueries = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "listing_queries_total",
		Help:      "Listing queries served, by record kind.",
	}, []string{"kind"})

	m.listingQueryLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "listing_query_duration_ms",
		Help:      "Filter+sort+paginate latency in milliseconds, by record kind.",
		Buckets:   m.histogramBuckets,
	}, []string{"kind"})

	m.listingResultSize = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "listing_result_size",
		Help:      "Filtered result set size, by record kind.",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
	}, []string{"kind"})

	m.listingRecords = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "listing_records",
		Help:      "Source records currently loaded, by record kind.",
	}, []string{"kind"})

	m.messagesIngested = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "messages_ingested_total",
		Help:      "Messages merged into conversation threads.",
	})

	m.messagesDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "messages_duplicate_total",
		Help:      "Messages skipped because their id was already seen.",
	})

	m.messagesMalformed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "messages_malformed_total",
		Help:      "Messages rejected as structurally invalid.",
	})

	m.conversations = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "conversations",
		Help:      "Conversation threads currently tracked.",
	})

	m.unreadMessages = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "unread_messages",
		Help:      "Unread messages across all tracked threads.",
	})

	m.repositoryOps = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "repository_ops_total",
		Help:      "Repository operations, by backend and operation.",
	}, []string{"backend", "op"})

	m.repositoryErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "repository_errors_total",
		Help:      "Repository operation failures, by backend and operation.",
	}, []string{"backend", "op"})

	m.repositoryFailovers = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "repository_failovers_total",
		Help:      "Reads or writes rerouted from the primary to the fallback store.",
	})

	m.repositoryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "repository_op_duration_ms",
		Help:      "Repository operation latency in milliseconds.",
		Buckets:   m.histogramBuckets,
	})

	m.refreshCycles = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_cycles_total",
		Help:      "Completed listing refresh cycles.",
	})

	m.refreshErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_errors_total",
		Help:      "Refresh cycles that failed to load records.",
	})

	m.subscriptionEvents = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "subscription_events_total",
		Help:      "Change notifications received from the primary store.",
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ingest_queue_size",
		Help:      "Messages currently waiting in the ingest queue.",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ingest_queue_capacity",
		Help:      "Configured capacity of the ingest queue.",
	})

	m.queueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ingest_queue_utilization",
		Help:      "Ingest queue fill ratio between 0 and 1.",
	})

	m.ingestLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ingest_duration_ms",
		Help:      "Persist-and-merge latency per message in milliseconds.",
		Buckets:   m.histogramBuckets,
	})

	m.workerErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_errors_total",
		Help:      "Messages a worker failed to persist or merge.",
	})

	m.workerActiveCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_active",
		Help:      "Workers currently running in the ingest pool.",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests, by endpoint, method and status code.",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Allocated heap bytes.",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current goroutine count.",
	})
}

// Package-level helpers that record on the global manager.

func RecordListingQuery(kind string, latencyMs float64, resultSize int) {
	globalManager.listingQueries.WithLabelValues(kind).Inc()
	globalManager.listingQueryLatency.WithLabelValues(kind).Observe(latencyMs)
	globalManager.listingResultSize.WithLabelValues(kind).Observe(float64(resultSize))
}

func UpdateListingRecords(kind string, count int) {
	globalManager.listingRecords.WithLabelValues(kind).Set(float64(count))
}

func RecordMessageIngested()  { globalManager.messagesIngested.Inc() }
func RecordMessageDuplicate() { globalManager.messagesDuplicate.Inc() }
func RecordMessageMalformed() { globalManager.messagesMalformed.Inc() }

func UpdateConversations(count int) {
	globalManager.conversations.Set(float64(count))
}

func UpdateUnreadMessages(count int) {
	globalManager.unreadMessages.Set(float64(count))
}

func RecordRepositoryOp(backend, op string, latencyMs float64) {
	globalManager.repositoryOps.WithLabelValues(backend, op).Inc()
	globalManager.repositoryLatency.Observe(latencyMs)
}

func RecordRepositoryError(backend, op string) {
	globalManager.repositoryErrors.WithLabelValues(backend, op).Inc()
}

func RecordRepositoryFailover() { globalManager.repositoryFailovers.Inc() }

func RecordRefreshCycle()      { globalManager.refreshCycles.Inc() }
func RecordRefreshError()      { globalManager.refreshErrors.Inc() }
func RecordSubscriptionEvent() { globalManager.subscriptionEvents.Inc() }

func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

func UpdateQueueUtilization(ratio float64) {
	globalManager.queueUtilization.Set(ratio)
}

func RecordIngestLatency(latencyMs float64) {
	globalManager.ingestLatency.Observe(latencyMs)
}

func RecordWorkerError() { globalManager.workerErrors.Inc() }

func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, status string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(durationMs)
}

func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom registry for serving /healthz metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
