package chi

import (
	"net/http"
	"strconv"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/searchapi/internal/domain"
	logpkg "github.com/kailas-cloud/searchapi/internal/logger"
)

// JSONRecoverer turns panics into a JSON 500 instead of a plain text stacktrace.
func JSONRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}
					logpkg.FromContextOr(r.Context(), logger).Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// WideEvent emits one canonical log line per request, propagates X-Request-ID
// and attaches a per-request logger and query stats collector to the context.
func WideEvent(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)
			ctx, stats := domain.NewContextWithStats(ctx)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			}
			if stats.Tokens > 0 || stats.StoreHits > 0 {
				fields = append(fields,
					zap.Int("keyword_tokens", stats.Tokens),
					zap.Int("store_hits", stats.StoreHits),
					zap.Int("returned", stats.Returned),
					zap.Bool("recorded", stats.Recorded),
				)
			}
			reqLogger.Info("http_request", fields...)
		})
	}
}

// RateLimit rejects requests beyond rps with 429. rps <= 0 disables limiting.
// Health and metrics endpoints are never limited.
func RateLimit(rps float64, burst int) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rps <= 0 {
			return next
		}
		if burst <= 0 {
			burst = max(1, int(rps))
		}
		limiter := rate.NewLimiter(rate.Limit(rps), burst)
		retryAfter := strconv.Itoa(max(1, int(1/rps)))

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}
			if !limiter.Allow() {
				w.Header().Set("Retry-After", retryAfter)
				writeError(w, http.StatusTooManyRequests, CodeRateLimited, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
