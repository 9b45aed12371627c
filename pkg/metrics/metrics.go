package metrics

import (
	"strconv"
	"time"

	"github.com/Temutjin2k/fastlane/internal/domain/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
		[]string{"service"},
	)

	// Business metrics
	TripsPlannedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trips_planned_total",
			Help: "Total number of planned trips by speed tier",
		},
		[]string{"tier"},
	)

	ActiveDrivesGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "drives_active",
			Help: "Current number of running drive simulations",
		},
	)

	DriveTicksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "drive_ticks_total",
			Help: "Total number of simulated drive seconds",
		},
	)

	DrivesFinishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drives_finished_total",
			Help: "Total number of finished drives by outcome",
		},
		[]string{"outcome"},
	)

	WebSocketConnectionsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections_total",
			Help: "Current number of active WebSocket connections",
		},
	)

	DatabaseQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "database_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	DatabaseQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "database_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	RabbitMQMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rabbitmq_messages_published_total",
			Help: "Total number of messages published to RabbitMQ",
		},
		[]string{"event", "status"},
	)
)

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordHTTPMetrics records HTTP request metrics
func RecordHTTPMetrics(service, method, path string, statusCode int, duration time.Duration) {
	code := strconv.Itoa(statusCode)
	HttpRequestsTotal.WithLabelValues(service, method, path, code).Inc()
	HttpRequestDuration.WithLabelValues(service, method, path, code).Observe(duration.Seconds())
}

// RecordDatabaseQuery records database query metrics
func RecordDatabaseQuery(operation string, err error, duration time.Duration) {
	DatabaseQueriesTotal.WithLabelValues(operation, status(err)).Inc()
	DatabaseQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordRabbitMQPublish records RabbitMQ publish metrics
func RecordRabbitMQPublish(event types.DriveEvent, err error) {
	RabbitMQMessagesPublished.WithLabelValues(event.String(), status(err)).Inc()
}

func RecordTripPlanned(tier types.Tier) {
	TripsPlannedTotal.WithLabelValues(string(tier)).Inc()
}

func RecordDriveFinished(outcome types.DriveState) {
	DrivesFinishedTotal.WithLabelValues(outcome.String()).Inc()
}

// ObserveQuery is meant to be deferred: defer metrics.ObserveQuery("trip_create", time.Now(), &err)
func ObserveQuery(operation string, start time.Time, errp *error) {
	var err error
	if errp != nil {
		err = *errp
	}
	RecordDatabaseQuery(operation, err, time.Since(start))
}
