package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for URL verification. All methods are safe
// on a nil receiver.
type Metrics struct {
	// Latency of each verification path: "curated", "intelligence", "combined"
	PathLatency *prometheus.HistogramVec

	// Curated outcomes: "malicious", "verified", "unknown", "error"
	CuratedOutcome *prometheus.CounterVec

	// Intelligence ratings: "safe", "unsafe", "uncertain", "error"
	IntelligenceRating *prometheus.CounterVec

	// Verdict cache lookups by result: "hit", "miss", "error"
	VerdictCache *prometheus.CounterVec
}

// New registers the metrics with reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		PathLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "qrsafe_verify_duration_seconds",
			Help:    "Duration of verification paths",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"path"}),

		CuratedOutcome: f.NewCounterVec(prometheus.CounterOpts{
			Name: "qrsafe_curated_outcomes_total",
			Help: "Curated lookup outcomes",
		}, []string{"outcome"}),

		IntelligenceRating: f.NewCounterVec(prometheus.CounterOpts{
			Name: "qrsafe_intelligence_ratings_total",
			Help: "Web search verdict ratings",
		}, []string{"rating"}),

		VerdictCache: f.NewCounterVec(prometheus.CounterOpts{
			Name: "qrsafe_verdict_cache_lookups_total",
			Help: "Intelligence verdict cache lookups",
		}, []string{"result"}),
	}
}

func (m *Metrics) ObservePathLatency(path string, d time.Duration) {
	if m != nil {
		m.PathLatency.WithLabelValues(path).Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementCuratedOutcome(outcome string) {
	if m != nil {
		m.CuratedOutcome.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) IncrementIntelligenceRating(rating string) {
	if m != nil {
		m.IntelligenceRating.WithLabelValues(rating).Inc()
	}
}

func (m *Metrics) IncrementVerdictCache(result string) {
	if m != nil {
		m.VerdictCache.WithLabelValues(result).Inc()
	}
}
