package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all the Prometheus metrics for the application
type Metrics struct {
	// Parsing Metrics
	ParseAttempts *prometheus.CounterVec
	ParseMatches  *prometheus.CounterVec
	ParseFailures *prometheus.CounterVec
	ParseDuration prometheus.Histogram
	LinesReceived prometheus.Counter

	// Script Engine Metrics
	ScriptLoads      prometheus.Counter
	ScriptLoadErrors prometheus.Counter
	ScriptErrors     *prometheus.CounterVec

	// Worker Pool Metrics
	WorkersActive        prometheus.Gauge
	WorkQueueSize        prometheus.Gauge
	WorkItemsProcessed   prometheus.Counter
	WorkItemsErrored     prometheus.Counter
	WorkerProcessingTime prometheus.Histogram

	// API Metrics
	APIRequestsTotal   *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec
	APIErrors          *prometheus.CounterVec
}

var (
	metrics *Metrics
	once    sync.Once
)

// GetMetrics returns the singleton metrics instance
func GetMetrics() *Metrics {
	once.Do(func() {
		metrics = initMetrics()
		// The promauto factory automatically registers metrics with the default registry
		// so we don't need to register them again with prometheus.MustRegister
	})
	return metrics
}

func initMetrics() *Metrics {
	return &Metrics{
		// Parsing Metrics
		ParseAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "netlog_parse_attempts_total",
				Help: "The total number of parse attempts by parser",
			},
			[]string{"parser"},
		),
		ParseMatches: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "netlog_parse_matches_total",
				Help: "The total number of lines a parser recognized",
			},
			[]string{"parser"},
		),
		ParseFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "netlog_parse_failures_total",
				Help: "The total number of lines no parser recognized",
			},
			[]string{"reason"},
		),
		ParseDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "netlog_parse_duration_seconds",
			Help:    "The time taken to parse a single log line",
			Buckets: prometheus.DefBuckets,
		}),
		LinesReceived: promauto.NewCounter(prometheus.CounterOpts{
			Name: "netlog_lines_received_total",
			Help: "The total number of raw log lines received",
		}),

		// Script Engine Metrics
		ScriptLoads: promauto.NewCounter(prometheus.CounterOpts{
			Name: "netlog_script_loads_total",
			Help: "The total number of parser scripts loaded successfully",
		}),
		ScriptLoadErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "netlog_script_load_errors_total",
			Help: "The total number of parser scripts that failed to load",
		}),
		ScriptErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "netlog_script_errors_total",
				Help: "The total number of runtime errors raised by parser scripts",
			},
			[]string{"script"},
		),

		// Worker Pool Metrics
		WorkersActive: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "netlog_workers_active",
			Help: "The number of active workers in the pool",
		}),
		WorkQueueSize: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "netlog_work_queue_size",
			Help: "The current size of the work queue",
		}),
		WorkItemsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "netlog_work_items_processed_total",
			Help: "The total number of work items processed",
		}),
		WorkItemsErrored: promauto.NewCounter(prometheus.CounterOpts{
			Name: "netlog_work_items_errored_total",
			Help: "The total number of work items that resulted in errors",
		}),
		WorkerProcessingTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "netlog_worker_processing_duration_seconds",
			Help:    "The time taken by a worker to process a work item",
			Buckets: prometheus.DefBuckets,
		}),

		// API Metrics
		APIRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "netlog_api_requests_total",
				Help: "The total number of API requests",
			},
			[]string{"method", "path", "status"},
		),
		APIRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "netlog_api_request_duration_seconds",
				Help:    "The duration of API requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		APIErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "netlog_api_errors_total",
				Help: "The total number of API errors",
			},
			[]string{"method", "path", "error_type"},
		),
	}
}
