package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchapi/internal/metrics"
)

// RouterConfig holds the cross-cutting HTTP settings.
type RouterConfig struct {
	APIKeys   []string
	RateRPS   float64
	RateBurst int
}

// NewRouter mounts the API routes behind the standard middleware stack.
func NewRouter(s *Server, cfg RouterConfig, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEvent(logger))
	r.Use(BearerAuthMiddleware(cfg.APIKeys))
	r.Use(RateLimit(cfg.RateRPS, cfg.RateBurst))
	r.Use(metrics.Middleware())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeBadRequest, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", s.SearchDocuments)
		r.Get("/autocomplete", s.Autocomplete)
		r.Get("/topsearched", s.TopSearched)
	})
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	return r
}
