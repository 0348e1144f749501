package middleware

import (
	"net/http"
	"time"

	"github.com/crucial707/staybook/internal/metrics"
	"github.com/go-chi/chi/v5"
)

// Prometheus records request duration and count for each request. The path label is the matched
// chi route pattern when there is one, so /api/v1/places/7 and /api/v1/places/8 share a series.
func Prometheus(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := record(w)
		next.ServeHTTP(rec, r)
		if r.URL.Path == "/metrics" {
			return
		}

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}
		if path == "" {
			path = "/"
		}
		metrics.RecordRequest(r.Method, path, rec.status, time.Since(start).Seconds())
	})
}
