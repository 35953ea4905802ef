// Package metrics содержит prometheus-коллекторы сервиса.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор коллекторов prometheus для HTTP, БД и доменных событий
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueriesTotal  *prometheus.CounterVec
	DBQueryDuration *prometheus.HistogramVec

	DBConnectionsOpen  *prometheus.GaugeVec
	DBConnectionsIdle  *prometheus.GaugeVec
	DBConnectionsInUse *prometheus.GaugeVec

	// Доменные метрики waitlist-движка
	WaitlistTransitionsTotal *prometheus.CounterVec
	OffersSentTotal          prometheus.Counter
	OffersExpiredTotal       prometheus.Counter
	ClaimConflictsTotal      prometheus.Counter
	SearchDaysScanned        prometheus.Histogram
}

// New создает и регистрирует коллекторы в default registry
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		DBQueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries",
			ConstLabels: constLabels,
		}, []string{"operation", "status"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),

		DBConnectionsOpen: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_connections_open",
			Help:        "Number of open database connections",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBConnectionsIdle: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_connections_idle",
			Help:        "Number of idle database connections",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBConnectionsInUse: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_connections_in_use",
			Help:        "Number of database connections in use",
			ConstLabels: constLabels,
		}, []string{"db"}),

		WaitlistTransitionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "waitlist_transitions_total",
			Help:        "Waitlist entry state transitions",
			ConstLabels: constLabels,
		}, []string{"from", "to"}),

		OffersSentTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "waitlist_offers_sent_total",
			Help:        "Slot offers sent to waiting customers",
			ConstLabels: constLabels,
		}),

		OffersExpiredTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "waitlist_offers_expired_total",
			Help:        "Slot offers that expired without a response",
			ConstLabels: constLabels,
		}),

		ClaimConflictsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "reservation_claim_conflicts_total",
			Help:        "Slot claims rejected because the slot was already taken",
			ConstLabels: constLabels,
		}),

		SearchDaysScanned: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:        "slot_search_days_scanned",
			Help:        "Days scanned per availability search",
			ConstLabels: constLabels,
			Buckets:     []float64{1, 3, 7, 14, 30, 60, 90},
		}),
	}
}
