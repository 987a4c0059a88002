package metrics

import "github.com/prometheus/client_golang/prometheus"

// Retrieval and synthesis Prometheus metrics.
var (
	RetrievalDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ragdex",
			Name:      "retrieval_duration_seconds",
			Help:      "Retrieval duration (query embedding + search + reranking) in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	RetrievalDocuments = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ragdex",
			Name:      "retrieval_documents",
			Help:      "Number of documents returned per retrieval",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
	)

	SynthesisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ragdex",
			Name:      "synthesis_duration_seconds",
			Help:      "Answer synthesis duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	GenerationFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ragdex",
			Name:      "generation_fallbacks_total",
			Help:      "Answers degraded to raw passage text instead of generation",
		},
		[]string{"reason"}, // "unconfigured" / "error"
	)
)

var ragMetricsRegistered bool

// RegisterRAGMetrics registers retrieval/synthesis metrics. Must be called once from main.
func RegisterRAGMetrics() {
	if ragMetricsRegistered {
		return
	}
	prometheus.MustRegister(RetrievalDuration)
	prometheus.MustRegister(RetrievalDocuments)
	prometheus.MustRegister(SynthesisDuration)
	prometheus.MustRegister(GenerationFallbacksTotal)
	ragMetricsRegistered = true
}
