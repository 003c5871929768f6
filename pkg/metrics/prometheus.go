// Package metrics provides Prometheus metrics for pionscan runs.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Latency buckets in milliseconds; file runs range from sub-ms fixtures to
// multi-minute production sets.
var defaultLatencyBuckets = prometheus.ExponentialBuckets(1, 4, 10) //nolint:gochecknoglobals // immutable bucket layout

// Manager owns every collector used by a run.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Input and parsing
	filesProcessed     prometheus.Counter
	fileFailures       *prometheus.CounterVec
	duplicateInputs    prometheus.Counter
	eventsProcessed    prometheus.Counter
	particlesProcessed *prometheus.CounterVec
	linesSkipped       prometheus.Counter
	batchesSealed      prometheus.Counter
	domainErrors       prometheus.Counter
	fileLatency        prometheus.Histogram

	// Queue
	queueSize          prometheus.Gauge
	queueEnqueue       prometheus.Counter
	queueDequeue       prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Workers
	workerActiveCount prometheus.Gauge

	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// Init replaces the global manager with one built from opts on a fresh
// registry. It must be called before anything is recorded, typically to
// stamp every series of a run with WithConstLabels.
func Init(opts ...Option) {
	reg := prometheus.NewRegistry()
	globalManager = NewManager(append([]Option{WithPrometheusRegistry(reg)}, opts...)...)
	customRegistry = reg
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pionscan",
		subsystem:        "analysis",
		histogramBuckets: defaultLatencyBuckets,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.filesProcessed = auto.NewCounter(m.counterOpts("files_processed_total",
		"Total number of input files aggregated to completion or to their cap"))
	m.fileFailures = auto.NewCounterVec(m.counterOpts("file_failures_total",
		"Total number of input files that could not be processed"), []string{"reason"})
	m.duplicateInputs = auto.NewCounter(m.counterOpts("duplicate_inputs_total",
		"Total number of input paths dropped because they were listed more than once"))
	m.eventsProcessed = auto.NewCounter(m.counterOpts("events_processed_total",
		"Total number of event headers consumed"))
	m.particlesProcessed = auto.NewCounterVec(m.counterOpts("particles_processed_total",
		"Total number of particle records processed by class"), []string{"class"})
	m.linesSkipped = auto.NewCounter(m.counterOpts("lines_skipped_total",
		"Total number of malformed particle lines skipped"))
	m.batchesSealed = auto.NewCounter(m.counterOpts("batches_sealed_total",
		"Total number of batch windows sealed"))
	m.domainErrors = auto.NewCounter(m.counterOpts("kinematics_domain_errors_total",
		"Total number of particles whose pseudorapidity is undefined"))
	m.fileLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "file_processing_duration_milliseconds",
		Help:        "Wall time spent aggregating one file",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Current number of queued file jobs"))
	m.queueEnqueue = auto.NewCounter(m.counterOpts("queue_enqueue_total", "Total number of jobs enqueued"))
	m.queueDequeue = auto.NewCounter(m.counterOpts("queue_dequeue_total", "Total number of jobs dequeued"))
	m.queueEnqueueErrors = auto.NewCounter(m.counterOpts("queue_enqueue_errors_total",
		"Total number of rejected enqueue attempts"))

	m.workerActiveCount = auto.NewGauge(m.gaugeOpts("worker_active_count", "Number of workers currently processing a file"))

	m.errorsByComponent = auto.NewCounterVec(m.counterOpts("errors_total",
		"Errors by component and type"), []string{"component", "error_type"})
}

// RecordFileProcessed increments the processed files counter and observes
// the file latency.
func RecordFileProcessed(latencyMs float64) {
	globalManager.filesProcessed.Inc()
	globalManager.fileLatency.Observe(latencyMs)
}

// RecordFileFailure counts a file-level failure.
func RecordFileFailure(reason string) {
	globalManager.fileFailures.WithLabelValues(reason).Inc()
}

// RecordDuplicateInput counts a dropped duplicate input path.
func RecordDuplicateInput() {
	globalManager.duplicateInputs.Inc()
}

// RecordEvents counts consumed event headers.
func RecordEvents(n int) {
	globalManager.eventsProcessed.Add(float64(n))
}

// RecordParticles counts processed particles under their class label.
func RecordParticles(class string, n int) {
	globalManager.particlesProcessed.WithLabelValues(class).Add(float64(n))
}

// RecordLinesSkipped counts malformed lines.
func RecordLinesSkipped(n int) {
	globalManager.linesSkipped.Add(float64(n))
}

// RecordBatchesSealed counts sealed batch windows.
func RecordBatchesSealed(n int) {
	globalManager.batchesSealed.Add(float64(n))
}

// RecordDomainErrors counts undefined pseudorapidities.
func RecordDomainErrors(n int) {
	globalManager.domainErrors.Add(float64(n))
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueue.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeue.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// WorkerStarted marks a worker as busy.
func WorkerStarted() {
	globalManager.workerActiveCount.Inc()
}

// WorkerFinished marks a worker as idle.
func WorkerFinished() {
	globalManager.workerActiveCount.Dec()
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile dumps the current registry in the text exposition format,
// suitable for the node_exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteTextfile, path, err)
	}
	return nil
}
