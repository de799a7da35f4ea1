// Package admin serves the operational HTTP endpoints:
//
//	GET /health       store connectivity, cache size, build info
//	GET /metrics      Prometheus exposition
//	GET /debug/cache  deduplication cache counters
package admin

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rickgao/tickerwatch/internal/dedup"
	"github.com/rickgao/tickerwatch/internal/version"
)

// Pinger checks a dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CacheStats reports deduplication cache counters.
type CacheStats interface {
	Stats() dedup.Stats
	Capacity() int
	TTL() time.Duration
}

// Deps are the handler dependencies.
type Deps struct {
	Store    Pinger
	Cache    CacheStats
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// NewRouter builds the admin router.
func NewRouter(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler(d))
	r.Get("/debug/cache", cacheHandler(d))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))

	return r
}

type healthResponse struct {
	Status     string            `json:"status"`
	Version    version.BuildInfo `json:"version"`
	Components map[string]any    `json:"components"`
}

func healthHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := healthResponse{
			Status:     "healthy",
			Version:    version.Info(),
			Components: make(map[string]any),
		}

		if err := d.Store.Ping(ctx); err != nil {
			health.Status = "unhealthy"
			health.Components["store"] = map[string]string{
				"status": "disconnected",
				"error":  err.Error(),
			}
			d.Logger.Warn("health check failed", "component", "store", "error", err)
		} else {
			health.Components["store"] = "connected"
		}

		stats := d.Cache.Stats()
		health.Components["dedup_cache"] = map[string]int{
			"entries":  stats.Entries,
			"capacity": d.Cache.Capacity(),
		}

		status := http.StatusOK
		if health.Status == "unhealthy" {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, health)
	}
}

func cacheHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, struct {
			dedup.Stats
			Capacity   int     `json:"capacity"`
			TTLSeconds float64 `json:"ttl_seconds"`
		}{
			Stats:      d.Cache.Stats(),
			Capacity:   d.Cache.Capacity(),
			TTLSeconds: d.Cache.TTL().Seconds(),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
