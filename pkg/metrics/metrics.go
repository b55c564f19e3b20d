package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Appointment flow
	AppointmentsCreated  prometheus.Counter
	AppointmentsImported prometheus.Counter
	AppointmentsDone     prometheus.Counter

	// Calendar provider
	CalendarOperations *prometheus.CounterVec
	CalendarLatency    *prometheus.HistogramVec

	// Ledger file
	LedgerOperations *prometheus.CounterVec
	LedgerLatency    *prometheus.HistogramVec
	LedgerRows       prometheus.Gauge

	// Notifications
	NotificationsSent   *prometheus.CounterVec
	NotificationsFailed *prometheus.CounterVec
}

// New creates and registers all application metrics
func New(namespace string) *Metrics {
	return &Metrics{
		AppointmentsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointments_created_total",
			Help:      "Total number of appointments created through the form flow",
		}),
		AppointmentsImported: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointments_imported_total",
			Help:      "Total number of past events imported by reconciliation",
		}),
		AppointmentsDone: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointments_completed_total",
			Help:      "Total number of ledger rows marked completed",
		}),

		CalendarOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calendar_operations_total",
			Help:      "Total number of calendar provider calls",
		}, []string{"operation", "status"}),
		CalendarLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "calendar_operation_duration_seconds",
			Help:      "Duration of calendar provider calls",
			Buckets:   []float64{.025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"operation"}),

		LedgerOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_operations_total",
			Help:      "Total number of ledger file operations",
		}, []string{"operation", "status"}),
		LedgerLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ledger_operation_duration_seconds",
			Help:      "Duration of ledger file operations",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		LedgerRows: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ledger_rows",
			Help:      "Current number of rows in the ledger file",
		}),

		NotificationsSent: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_sent_total",
			Help:      "Total number of notifications sent",
		}, []string{"channel"}),
		NotificationsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_failed_total",
			Help:      "Total number of notification sends that failed",
		}, []string{"channel"}),
	}
}
