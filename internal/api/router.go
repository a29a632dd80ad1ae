package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	mw "github.com/vertragscheck/vertragscheck/internal/middleware"
)

// HandlerSet holds handler functions injected from main.go to avoid import cycles.
type HandlerSet struct {
	Analyze http.HandlerFunc

	// Static serves the embedded single-page client; nil disables it.
	Static http.Handler
}

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	CORSAllowedOrigins []string

	// AnalyzeRateLimiter wraps /api/analyze when Redis is configured.
	AnalyzeRateLimiter func(http.Handler) http.Handler

	// RedisPing is consulted by the readiness probe; nil means Redis is
	// not configured and is reported as such rather than unhealthy.
	RedisPing func(ctx context.Context) error
}

func NewRouter(cfg RouterConfig, h HandlerSet) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.SecurityHeaders)
	r.Use(mw.Logging)
	r.Use(mw.Recovery)
	r.Use(mw.Metrics)
	r.Use(cors.Handler(mw.CORS(cfg.CORSAllowedOrigins)))

	// Liveness probe: always 200, no dependency checks
	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		JSON(w, http.StatusOK, map[string]string{"status": "alive"})
	})

	// Readiness probe. The upstream model is deliberately not probed
	// (every check would cost a billable call); only Redis is verified.
	readinessHandler := func(w http.ResponseWriter, r *http.Request) {
		health := map[string]string{
			"status": "healthy",
			"redis":  "not configured",
		}
		status := http.StatusOK

		if cfg.RedisPing != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := cfg.RedisPing(ctx); err != nil {
				health["redis"] = "unhealthy"
				health["status"] = "degraded"
				status = http.StatusServiceUnavailable
			} else {
				health["redis"] = "healthy"
			}
		}

		JSON(w, status, health)
	}

	r.Get("/health/ready", readinessHandler)
	r.Get("/health", readinessHandler)

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	// The analyze handler performs its own method check so wrong methods
	// get the documented 405 with an Allow header.
	r.Route("/api", func(r chi.Router) {
		if cfg.AnalyzeRateLimiter != nil {
			r.Use(cfg.AnalyzeRateLimiter)
		}
		r.HandleFunc("/analyze", h.Analyze)
	})

	if h.Static != nil {
		r.Handle("/*", h.Static)
	}

	return r
}
