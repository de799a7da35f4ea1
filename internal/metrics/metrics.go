package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rickgao/tickerwatch/internal/dedup"
	"github.com/rickgao/tickerwatch/internal/retry"
)

const namespace = "tickerwatch"

// Metrics holds the service collectors.
type Metrics struct {
	mutations       *prometheus.CounterVec
	replays         *prometheus.CounterVec
	handlerDuration *prometheus.HistogramVec
	retryAttempts   *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		mutations: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mutations_total",
				Help:      "Mutations processed, by operation and outcome",
			},
			[]string{"op", "outcome"},
		),
		replays: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mutation_replays_total",
				Help:      "Mutations answered from the deduplication cache",
			},
			[]string{"op"},
		),
		handlerDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "rpc_duration_seconds",
				Help:      "RPC handler duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "code"},
		),
		retryAttempts: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "client_attempts_total",
				Help:      "Client call attempts, by operation and classification",
			},
			[]string{"op", "class"},
		),
	}
}

// ObserveMutation counts a freshly computed mutation outcome.
func (m *Metrics) ObserveMutation(op, outcome string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(op, outcome).Inc()
}

// ObserveReplay counts a mutation served from the cache.
func (m *Metrics) ObserveReplay(op string) {
	if m == nil {
		return
	}
	m.replays.WithLabelValues(op).Inc()
}

// ObserveRPC records handler latency.
func (m *Metrics) ObserveRPC(method, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.handlerDuration.WithLabelValues(method, code).Observe(d.Seconds())
}

// ObserveAttempt implements retry.Observer.
func (m *Metrics) ObserveAttempt(op string, class retry.Class) {
	if m == nil {
		return
	}
	m.retryAttempts.WithLabelValues(op, class.String()).Inc()
}

// RegisterCacheStats exposes dedup cache counters read from stats on every scrape.
func RegisterCacheStats(reg prometheus.Registerer, stats func() dedup.Stats) {
	f := promauto.With(reg)
	f.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "dedup",
		Name:      "entries",
		Help:      "Request identities currently held",
	}, func() float64 { return float64(stats().Entries) })

	counters := []struct {
		name string
		help string
		get  func(dedup.Stats) int64
	}{
		{"hits_total", "Cache lookups that returned an outcome", func(s dedup.Stats) int64 { return s.Hits }},
		{"misses_total", "Cache lookups that found nothing", func(s dedup.Stats) int64 { return s.Misses }},
		{"stores_total", "Outcomes written to the cache", func(s dedup.Stats) int64 { return s.Stores }},
		{"evictions_total", "Entries evicted for capacity", func(s dedup.Stats) int64 { return s.Evictions }},
		{"expirations_total", "Entries dropped after their TTL", func(s dedup.Stats) int64 { return s.Expirations }},
	}
	for _, c := range counters {
		get := c.get
		f.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dedup",
			Name:      c.name,
			Help:      c.help,
		}, func() float64 { return float64(get(stats())) })
	}
}
