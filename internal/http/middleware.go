package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"silvercare/internal/metrics"

	"github.com/google/uuid"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"go.uber.org/zap"
)

type Middleware func(http.Handler) http.Handler

const requestIDHeader = "X-Request-ID"

// Chain applies mws so that the first one is outermost.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// RequestID propagates X-Request-ID, generating one when absent.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if id == "" {
				id = uuid.NewString()
				r.Header.Set(requestIDHeader, id)
			}
			w.Header().Set(requestIDHeader, id)
			next.ServeHTTP(w, r)
		})
	}
}

// Observe logs each request and records the HTTP metrics.
func Observe(logger *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			route := routeLabel(r.URL.Path)
			elapsed := time.Since(start)
			metrics.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
			metrics.HTTPDuration.WithLabelValues(route, r.Method).Observe(elapsed.Seconds())

			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", elapsed),
				zap.String("request_id", r.Header.Get(requestIDHeader)),
			)
		})
	}
}

// Recover turns a handler panic into a 500.
func Recover(logger *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					logger.Error("handler panic", zap.Any("panic", v), zap.String("path", r.URL.Path), zap.Stack("stack"))
					writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: msgInternal, Code: "internal"})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit limits requests per client IP with an in-memory store.
// formatted uses the limiter syntax, e.g. "20-M". An empty value disables limiting.
func RateLimit(formatted, route string) (Middleware, error) {
	if formatted == "" {
		return func(h http.Handler) http.Handler { return h }, nil
	}
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}
	lim := limiter.New(memory.NewStore(), rate)
	mw := stdlib.NewMiddleware(lim, stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
		metrics.RateLimited.WithLabelValues(route).Inc()
		writeJSON(w, http.StatusTooManyRequests, ErrorResponse{Error: "too many requests", Code: "rate_limited"})
	}))
	return mw.Handler, nil
}

// routeLabel keeps metric cardinality bounded: /api/medicines/12 -> /medicines.
func routeLabel(path string) string {
	path = strings.TrimPrefix(path, "/api")
	seg := strings.SplitN(strings.Trim(path, "/"), "/", 2)[0]
	switch seg {
	case "medicines", "sos", "contacts", "chat", "providers", "feedback", "app", "healthz", "metrics":
		return "/" + seg
	}
	return "other"
}
