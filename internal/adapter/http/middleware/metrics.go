package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/Temutjin2k/fastlane/pkg/metrics"
	"github.com/google/uuid"
)

// Metrics records HTTP metrics. Path labels have ids replaced by ":id".
func (m *Middleware) Metrics(serviceName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			metrics.HttpRequestsInFlight.WithLabelValues(serviceName).Inc()
			defer metrics.HttpRequestsInFlight.WithLabelValues(serviceName).Dec()

			rw := wrapWriter(w)
			next.ServeHTTP(rw, r)

			metrics.RecordHTTPMetrics(serviceName, r.Method, routeLabel(r.URL.Path), rw.statusCode, time.Since(start))
		})
	}
}

func routeLabel(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if p == "" {
			continue
		}
		if _, err := uuid.Parse(p); err == nil {
			parts[i] = ":id"
		}
	}
	if len(parts) > 2 && parts[1] == "speed" {
		parts[2] = ":pct"
	}
	return strings.Join(parts, "/")
}
