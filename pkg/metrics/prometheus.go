// Package metrics provides Prometheus metrics for the syncsix service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector exposed by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Engine
	engineRuns         prometheus.Counter
	engineClockFallbck prometheus.Counter
	playersScored      prometheus.Counter
	playersRanked      prometheus.Counter
	ruleHits           *prometheus.CounterVec
	scoreDistribution  prometheus.Histogram
	engineLatency      prometheus.Histogram

	// Upstream sports API
	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	cacheLookups     *prometheus.CounterVec

	// Slate queue and workers
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueueErrors prometheus.Counter
	workerCount        prometheus.Gauge
	workerJobs         prometheus.Counter
	workerErrors       prometheus.Counter
	workerLatency      prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec
	errorsByEndpoint  *prometheus.CounterVec

	// Process
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by the Record* helpers

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps default Go collectors out of /healthz

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "syncsix",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	m.engineRuns = m.counter("runs_total", "Total number of engine runs")
	m.engineClockFallbck = m.counter("clock_fallbacks_total",
		"Engine runs whose event had no usable start time and fell back to the clock")
	m.playersScored = m.counter("players_scored_total", "Total number of players scored")
	m.playersRanked = m.counter("players_ranked_total", "Total number of players that passed the ranking gate")
	m.ruleHits = m.counterVec("rule_hits_total", "Rule hits by rule tag", "rule")
	m.scoreDistribution = m.histogram("score", "Distribution of synchronicity scores",
		prometheus.LinearBuckets(0, 10, 10))
	m.engineLatency = m.histogram("run_latency_milliseconds", "Engine run latency in milliseconds",
		m.histogramBuckets)

	m.upstreamRequests = m.counterVec("upstream_requests_total",
		"Requests to the sports API by endpoint and status", "endpoint", "status")
	m.upstreamLatency = m.histogramVec("upstream_latency_milliseconds",
		"Sports API request latency in milliseconds", "endpoint")
	m.cacheLookups = m.counterVec("cache_lookups_total",
		"Upstream response cache lookups by backend and result", "backend", "result")

	m.queueSize = m.gauge("queue_size", "Current number of queued slate jobs")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum number of queued slate jobs")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Rejected slate job enqueues")
	m.workerCount = m.gauge("worker_count", "Number of slate workers")
	m.workerJobs = m.counter("worker_jobs_total", "Slate jobs processed by workers")
	m.workerErrors = m.counter("worker_errors_total", "Slate jobs that failed")
	m.workerLatency = m.histogram("worker_latency_milliseconds", "Slate job processing latency in milliseconds",
		m.histogramBuckets)

	m.httpRequests = m.counterVec("http_requests_total",
		"Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", "endpoint", "method", "status_code")

	m.errorsByComponent = m.counterVec("errors_by_component_total",
		"Errors by component and type", "component", "error_type")
	m.errorsByEndpoint = m.counterVec("errors_by_endpoint_total",
		"HTTP errors by endpoint, method and type", "endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
}

// RecordEngineRun records one engine run and its latency.
func RecordEngineRun(latencyMs float64) {
	globalManager.engineRuns.Inc()
	globalManager.engineLatency.Observe(latencyMs)
}

// RecordClockFallback counts runs that used the clock instead of the event start time.
func RecordClockFallback() {
	globalManager.engineClockFallbck.Inc()
}

// RecordPlayerScored records one scored player and its score.
func RecordPlayerScored(score float64) {
	globalManager.playersScored.Inc()
	globalManager.scoreDistribution.Observe(score)
}

// RecordPlayersRanked adds the number of players that survived the ranking gate.
func RecordPlayersRanked(n int) {
	globalManager.playersRanked.Add(float64(n))
}

// RecordRuleHit increments the hit counter for a rule tag.
func RecordRuleHit(rule string) {
	globalManager.ruleHits.WithLabelValues(rule).Inc()
}

// RecordUpstreamRequest records a sports API call.
func RecordUpstreamRequest(endpoint, status string, latencyMs float64) {
	globalManager.upstreamRequests.WithLabelValues(endpoint, status).Inc()
	globalManager.upstreamLatency.WithLabelValues(endpoint).Observe(latencyMs)
}

// RecordCacheHit records a cache hit for backend.
func RecordCacheHit(backend string) {
	globalManager.cacheLookups.WithLabelValues(backend, "hit").Inc()
}

// RecordCacheMiss records a cache miss for backend.
func RecordCacheMiss(backend string) {
	globalManager.cacheLookups.WithLabelValues(backend, "miss").Inc()
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// UpdateWorkerCount sets the current worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerJob records a processed slate job.
func RecordWorkerJob(latencyMs float64) {
	globalManager.workerJobs.Inc()
	globalManager.workerLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
