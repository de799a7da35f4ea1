package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/rickgao/tickerwatch/internal/dedup"
	"github.com/rickgao/tickerwatch/internal/retry"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveMutation("register", "registered")
	m.ObserveMutation("register", "registered")
	m.ObserveMutation("register", "already_registered")
	m.ObserveReplay("register")
	m.ObserveAttempt("register", retry.Retryable)
	m.ObserveRPC("/tickerwatch.v1.SubscriptionService/RegisterUser", "OK", 3*time.Millisecond)

	if got := testutil.ToFloat64(m.mutations.WithLabelValues("register", "registered")); got != 2 {
		t.Errorf("mutations{registered} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.replays.WithLabelValues("register")); got != 1 {
		t.Errorf("replays = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.retryAttempts.WithLabelValues("register", "retryable")); got != 1 {
		t.Errorf("attempts{retryable} = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.handlerDuration); got != 1 {
		t.Errorf("histogram series = %d, want 1", got)
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveMutation("register", "registered")
	m.ObserveReplay("register")
	m.ObserveAttempt("register", retry.Success)
	m.ObserveRPC("m", "OK", time.Millisecond)
}

func TestRegisterCacheStats(t *testing.T) {
	reg := prometheus.NewRegistry()
	stats := dedup.Stats{Entries: 3, Hits: 7, Misses: 2, Evictions: 1}
	RegisterCacheStats(reg, func() dedup.Stats { return stats })

	expected := `
# HELP tickerwatch_dedup_entries Request identities currently held
# TYPE tickerwatch_dedup_entries gauge
tickerwatch_dedup_entries 3
# HELP tickerwatch_dedup_hits_total Cache lookups that returned an outcome
# TYPE tickerwatch_dedup_hits_total counter
tickerwatch_dedup_hits_total 7
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"tickerwatch_dedup_entries", "tickerwatch_dedup_hits_total")
	if err != nil {
		t.Errorf("GatherAndCompare: %v", err)
	}
}
