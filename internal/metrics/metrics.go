package metrics

import (
	"database/sql"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	metricPrefix = "chargelog_"

	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	registerOnce sync.Once

	recordsCreated *prometheus.CounterVec
	energyCharged  prometheus.Counter

	exportTotal   *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
)

// Init registers the collectors with the default registry. db may be nil;
// when set, connection pool statistics are exported too.
func Init(db *sql.DB) {
	registerOnce.Do(func() {
		recordsCreated = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "records_created_total",
				Help: "Total append attempts by result",
			},
			[]string{"result"},
		)
		energyCharged = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "energy_charged_kwh_total",
				Help: "Energy of all records appended since start, in kWh",
			},
		)
		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_total",
				Help: "Total month exports by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "export_latency_seconds",
				Help:    "Month export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)
		httpRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "status"},
		)
		httpLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		)

		prometheus.MustRegister(
			recordsCreated,
			energyCharged,
			exportTotal,
			exportLatency,
			httpRequests,
			httpLatency,
		)
		if db != nil {
			prometheus.MustRegister(collectors.NewDBStatsCollector(db, "chargelog"))
		}
	})
}

// ObserveRecordCreated counts an append attempt. energy is only added on success.
func ObserveRecordCreated(result string, energy float64) {
	if result == "" {
		result = ResultSuccess
	}
	if recordsCreated != nil {
		recordsCreated.WithLabelValues(result).Inc()
	}
	if result == ResultSuccess && energyCharged != nil && energy > 0 {
		energyCharged.Add(energy)
	}
}

// ObserveExport records export latency and result.
func ObserveExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = ResultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
	if exportLatency != nil {
		exportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// ObserveHTTP records one served request.
func ObserveHTTP(method, route string, status int, duration time.Duration) {
	if httpRequests != nil {
		httpRequests.WithLabelValues(method, route, statusLabel(status)).Inc()
	}
	if httpLatency != nil {
		httpLatency.WithLabelValues(method, route).Observe(duration.Seconds())
	}
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
