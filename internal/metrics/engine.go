package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search engine and upload pipeline Prometheus metrics.
var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docsift",
			Name:      "searches_total",
			Help:      "Total number of search requests",
		},
		[]string{"status"},
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "docsift",
			Name:      "search_duration_seconds",
			Help:      "End-to-end search duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	SearchCorpusDocuments = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "docsift",
			Name:      "search_corpus_documents",
			Help:      "Number of indexed documents observed per search",
			Buckets:   []float64{1, 5, 10, 50, 100, 500, 1000, 5000},
		},
	)

	SearchVocabularySize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "docsift",
			Name:      "search_vocabulary_size",
			Help:      "Vocabulary size of the per-call index build",
			Buckets:   []float64{10, 50, 100, 500, 1000, 5000, 10000},
		},
	)

	UploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docsift",
			Name:      "uploads_total",
			Help:      "Total number of processed file uploads",
		},
		[]string{"status"},
	)

	ExtractDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "docsift",
			Name:      "extract_duration_seconds",
			Help:      "PDF text extraction duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	SentimentRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docsift",
			Name:      "sentiment_requests_total",
			Help:      "Total number of sentiment scoring requests",
		},
		[]string{"provider", "status"},
	)

	SentimentRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docsift",
			Name:      "sentiment_request_duration_seconds",
			Help:      "Sentiment scoring request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider"},
	)

	SentimentErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docsift",
			Name:      "sentiment_errors_total",
			Help:      "Total sentiment scoring errors",
		},
		[]string{"provider", "error_type"},
	)

	SentimentCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docsift",
			Name:      "sentiment_cache_total",
			Help:      "Sentiment cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	SentimentTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docsift",
			Name:      "sentiment_tokens_total",
			Help:      "Total sentiment provider tokens consumed",
		},
		[]string{"provider", "model"},
	)

	SentimentBudgetTokensRemaining = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "docsift",
			Name:      "sentiment_budget_tokens_remaining",
			Help:      "Remaining sentiment token budget",
		},
		[]string{"provider", "period"},
	)
)

var engineMetricsRegistered bool

// RegisterEngineMetrics registers Prometheus engine metrics. Must be called once from main.
func RegisterEngineMetrics() {
	if engineMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchCorpusDocuments)
	prometheus.MustRegister(SearchVocabularySize)
	prometheus.MustRegister(UploadsTotal)
	prometheus.MustRegister(ExtractDuration)
	prometheus.MustRegister(SentimentRequestsTotal)
	prometheus.MustRegister(SentimentRequestDuration)
	prometheus.MustRegister(SentimentErrorsTotal)
	prometheus.MustRegister(SentimentCacheTotal)
	prometheus.MustRegister(SentimentTokensTotal)
	prometheus.MustRegister(SentimentBudgetTokensRemaining)
	engineMetricsRegistered = true
}
