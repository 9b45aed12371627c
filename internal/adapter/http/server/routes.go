package server

import (
	"net/http"

	"github.com/Temutjin2k/fastlane/internal/adapter/http/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// swaggerInstance matches the instance name registered by the docs package.
const swaggerInstance = "swagger"

// setupRoutes - setups http routes
func setupRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	mux.HandleFunc("GET /health", routes.health.HealthCheck)

	setupSwaggerRoutes(mux)
	setupMetricsRoute(mux)

	setupPublicRoutes(mux, routes)
	setupTripRoutes(mux, routes, m)
}

func setupPublicRoutes(mux *http.ServeMux, routes *handlers) {
	mux.HandleFunc("POST /auth/token", routes.auth.IssueToken)       // Issue a driver token
	mux.HandleFunc("GET /destinations", routes.catalog.Destinations) // Search the destination catalog
	mux.HandleFunc("GET /speed/{pct}", routes.catalog.Speed)         // Speed slider presentation
}

func setupTripRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	mux.Handle("POST /trips", m.RequireDriver(routes.trip.Plan))                         // Plan a trip
	mux.Handle("GET /trips/{trip_id}", m.RequireDriver(routes.trip.Get))                 // Get a trip with its route card
	mux.Handle("PATCH /trips/{trip_id}/speed", m.RequireDriver(routes.trip.UpdateSpeed)) // Change the speed boost
	mux.Handle("POST /trips/{trip_id}/drive", m.RequireDriver(routes.drive.Start))       // Start navigation
	mux.Handle("DELETE /trips/{trip_id}/drive", m.RequireDriver(routes.drive.Stop))      // Stop navigation
	mux.Handle("GET /trips/{trip_id}/drive", m.RequireDriver(routes.drive.Snapshot))     // Current drive snapshot
	mux.Handle("GET /ws/trips/{trip_id}", m.RequireDriver(routes.drive.Stream))          // WebSocket snapshot stream
}

// setupSwaggerRoutes serves the Swagger UI
func setupSwaggerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /swagger/", httpSwagger.Handler(httpSwagger.InstanceName(swaggerInstance)))
}

// setupMetricsRoute configures the Prometheus metrics endpoint
func setupMetricsRoute(mux *http.ServeMux) {
	mux.Handle("GET /metrics", promhttp.Handler())
}
