// Package metrics provides Prometheus metrics for the matchcore engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// latencyBuckets are in milliseconds; scoring a pair is sub-millisecond.
var latencyBuckets = []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250} //nolint:gochecknoglobals // shared default buckets

// Manager owns every Prometheus collector the engine exposes.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Matching
	scoresComputed        prometheus.Counter
	scoringLatency        prometheus.Histogram
	recommendations       *prometheus.CounterVec
	recommendationLatency *prometheus.HistogramVec

	// Gamification
	badgesAwarded        *prometheus.CounterVec
	endorsementsRecorded prometheus.Counter
	feedbackRecorded     prometheus.Counter
	leaderboardSize      prometheus.Gauge

	// Inbound events
	eventsAccepted  *prometheus.CounterVec
	eventsDuplicate prometheus.Counter
	eventsProcessed *prometheus.CounterVec
	eventsFailed    *prometheus.CounterVec

	// Queue and workers
	queueSize               prometheus.Gauge
	queueCapacity           prometheus.Gauge
	queueEnqueueErrors      *prometheus.CounterVec
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram

	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager. Without WithPrometheusRegistry the
// collectors land on prometheus.DefaultRegisterer.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "matchcore",
		subsystem:        "engine",
		histogramBuckets: latencyBuckets,
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
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) histogram(name, help string) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		Buckets: m.histogramBuckets,
	})
}

func (m *Manager) initializeMetrics() {
	m.scoresComputed = m.counter("scores_computed_total", "Total number of opportunity/volunteer pairs scored")
	m.scoringLatency = m.histogram("scoring_latency_milliseconds", "Latency of scoring one batch of pairs in milliseconds")
	m.recommendations = m.counterVec("recommendations_total",
		"Total number of recommendation lists served by direction", "direction")
	m.recommendationLatency = promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recommendation_latency_milliseconds",
		Help:      "Latency of building one recommendation list in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"direction"})

	m.badgesAwarded = m.counterVec("badges_awarded_total", "Total number of badges awarded by badge name", "badge")
	m.endorsementsRecorded = m.counter("endorsements_total", "Total number of skill endorsements recorded")
	m.feedbackRecorded = m.counter("feedback_total", "Total number of match feedback entries recorded")
	m.leaderboardSize = m.gauge("leaderboard_volunteers", "Number of volunteers with logged hours")

	m.eventsAccepted = m.counterVec("events_accepted_total", "Inbound events accepted onto the queue by kind", "kind")
	m.eventsDuplicate = m.counter("events_duplicate_total", "Inbound events dropped as duplicates")
	m.eventsProcessed = m.counterVec("events_processed_total", "Inbound events handled successfully by kind", "kind")
	m.eventsFailed = m.counterVec("events_failed_total", "Inbound events whose handling failed by kind", "kind")

	m.queueSize = m.gauge("queue_size", "Current number of queued inbound events")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum number of queued inbound events")
	m.queueEnqueueErrors = m.counterVec("queue_enqueue_errors_total", "Rejected enqueue attempts by reason", "reason")
	m.workerCount = m.gauge("worker_count", "Number of running event workers")
	m.workerProcessingLatency = m.histogram("worker_processing_latency_milliseconds",
		"Latency of handling one inbound event in milliseconds")

	m.errorsByComponent = m.counterVec("errors_total", "Errors by component and type", "component", "type")
}

// RecordScoresComputed adds n scored pairs.
func RecordScoresComputed(n int) {
	globalManager.scoresComputed.Add(float64(n))
}

// RecordScoringLatency records batch scoring latency in milliseconds.
func RecordScoringLatency(latencyMs float64) {
	globalManager.scoringLatency.Observe(latencyMs)
}

// RecordRecommendation counts one served list and its latency. direction is
// "volunteer", "opportunity" or "learning".
func RecordRecommendation(direction string, latencyMs float64) {
	globalManager.recommendations.WithLabelValues(direction).Inc()
	globalManager.recommendationLatency.WithLabelValues(direction).Observe(latencyMs)
}

// RecordBadgeAwarded increments the counter for badge.
func RecordBadgeAwarded(badge string) {
	globalManager.badgesAwarded.WithLabelValues(badge).Inc()
}

// RecordEndorsement increments the endorsements counter.
func RecordEndorsement() {
	globalManager.endorsementsRecorded.Inc()
}

// RecordFeedback increments the feedback counter.
func RecordFeedback() {
	globalManager.feedbackRecorded.Inc()
}

// UpdateLeaderboardSize sets the number of volunteers with logged hours.
func UpdateLeaderboardSize(count int) {
	globalManager.leaderboardSize.Set(float64(count))
}

// RecordEventAccepted counts an event of kind entering the queue.
func RecordEventAccepted(kind string) {
	globalManager.eventsAccepted.WithLabelValues(kind).Inc()
}

// RecordEventDuplicate increments the duplicate events counter.
func RecordEventDuplicate() {
	globalManager.eventsDuplicate.Inc()
}

// RecordEventProcessed counts a successfully handled event of kind.
func RecordEventProcessed(kind string) {
	globalManager.eventsProcessed.WithLabelValues(kind).Inc()
}

// RecordEventFailed counts a failed event of kind.
func RecordEventFailed(kind string) {
	globalManager.eventsFailed.WithLabelValues(kind).Inc()
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueueError counts a rejected enqueue.
func RecordQueueEnqueueError(reason string) {
	globalManager.queueEnqueueErrors.WithLabelValues(reason).Inc()
}

// UpdateWorkerCount sets the current worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records per-event handling latency in milliseconds.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordErrorByComponent increments the error counter for component and errorType.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
