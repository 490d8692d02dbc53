package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kirillkom/document-triage/internal/core/domain"
)

// ClassificationMetrics counts labels and batch sizes, and follows the
// resilience executor's retries and breaker transitions.
type ClassificationMetrics struct {
	service string

	documentsTotal *prometheus.CounterVec
	batchSize      *prometheus.HistogramVec
	batchDuration  *prometheus.HistogramVec
	retriesTotal   *prometheus.CounterVec
	breakerState   *prometheus.GaugeVec
}

func newClassificationMetrics(service string, registry prometheus.Registerer) *ClassificationMetrics {
	documentsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "triage",
			Subsystem: "classifier",
			Name:      "documents_total",
			Help:      "Total classified documents by label.",
		},
		[]string{"service", "label"},
	)
	batchSize := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "triage",
			Subsystem: "classifier",
			Name:      "batch_size",
			Help:      "Number of documents per classified batch.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100, 250},
		},
		[]string{"service"},
	)
	batchDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "triage",
			Subsystem: "classifier",
			Name:      "batch_duration_seconds",
			Help:      "Classification time per batch in seconds.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"service"},
	)
	retriesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "triage",
			Subsystem: "resilience",
			Name:      "retries_total",
			Help:      "Total retried calls by operation.",
		},
		[]string{"service", "operation"},
	)
	breakerState := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "triage",
			Subsystem: "resilience",
			Name:      "breaker_open",
			Help:      "1 when the circuit breaker of an operation is open or half-open.",
		},
		[]string{"service", "operation"},
	)

	registry.MustRegister(documentsTotal, batchSize, batchDuration, retriesTotal, breakerState)

	return &ClassificationMetrics{
		service:        service,
		documentsTotal: documentsTotal,
		batchSize:      batchSize,
		batchDuration:  batchDuration,
		retriesTotal:   retriesTotal,
		breakerState:   breakerState,
	}
}

func (m *ClassificationMetrics) RecordClassification(docType domain.DocumentType) {
	label := string(docType)
	if !docType.Valid() {
		label = "unknown"
	}
	m.documentsTotal.WithLabelValues(m.service, label).Inc()
}

func (m *ClassificationMetrics) RecordBatch(size int, seconds float64) {
	m.batchSize.WithLabelValues(m.service).Observe(float64(size))
	m.batchDuration.WithLabelValues(m.service).Observe(seconds)
}

func (m *ClassificationMetrics) RetryAttempt(operation string) {
	m.retriesTotal.WithLabelValues(m.service, operation).Inc()
}

func (m *ClassificationMetrics) BreakerStateChange(operation, to string) {
	value := 1.0
	if to == "closed" {
		value = 0
	}
	m.breakerState.WithLabelValues(m.service, operation).Set(value)
}
