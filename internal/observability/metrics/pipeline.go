package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kirillkom/legalease/internal/core/domain"
)

const namespace = "legalease"

// PipelineMetrics implements ports.AnalysisObserver and records circuit
// breaker transitions.
type PipelineMetrics struct {
	service string

	analysisTotal    *prometheus.CounterVec
	analysisDuration *prometheus.HistogramVec
	clausesDetected  *prometheus.HistogramVec
	failuresTotal    *prometheus.CounterVec
	breakerChanges   *prometheus.CounterVec
}

func newPipelineMetrics(service string, registry *prometheus.Registry) *PipelineMetrics {
	analysisTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "documents_total",
			Help:      "Analyzed documents by summary tier.",
		},
		[]string{"service", "tier"},
	)
	analysisDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "duration_seconds",
			Help:      "End-to-end extraction and summarization time by tier.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"service", "tier"},
	)
	clausesDetected := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "key_clauses",
			Help:      "Key clauses detected per document.",
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 6, 7, 8},
		},
		[]string{"service"},
	)
	failuresTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "failures_total",
			Help:      "Pipeline failures by stage.",
		},
		[]string{"service", "stage"},
	)
	breakerChanges := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resilience",
			Name:      "breaker_transitions_total",
			Help:      "Circuit breaker state transitions by operation.",
		},
		[]string{"service", "operation", "to"},
	)

	registry.MustRegister(analysisTotal, analysisDuration, clausesDetected, failuresTotal, breakerChanges)

	return &PipelineMetrics{
		service:          service,
		analysisTotal:    analysisTotal,
		analysisDuration: analysisDuration,
		clausesDetected:  clausesDetected,
		failuresTotal:    failuresTotal,
		breakerChanges:   breakerChanges,
	}
}

func (m *PipelineMetrics) ObserveAnalysis(tier domain.SummaryTier, clauses int, elapsed time.Duration) {
	label := string(tier)
	if label == "" {
		label = "unknown"
	}
	m.analysisTotal.WithLabelValues(m.service, label).Inc()
	m.analysisDuration.WithLabelValues(m.service, label).Observe(elapsed.Seconds())
	m.clausesDetected.WithLabelValues(m.service).Observe(float64(clauses))
}

func (m *PipelineMetrics) ObserveFailure(stage string) {
	if stage == "" {
		stage = "unknown"
	}
	m.failuresTotal.WithLabelValues(m.service, stage).Inc()
}

// ObserveBreakerTransition matches resilience.StateObserver.
func (m *PipelineMetrics) ObserveBreakerTransition(operation, _, to string) {
	m.breakerChanges.WithLabelValues(m.service, operation, to).Inc()
}
