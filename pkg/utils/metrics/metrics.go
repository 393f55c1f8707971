package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "resilio"
)

var (
	// Query Metrics
	QueryFetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "query_fetch_total",
		Help:      "Count of statistics queries sent to the stats source.",
	}, []string{"query", "status"})

	QueryFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "query_fetch_duration_seconds",
		Help:      "Time taken for a statistics query to return.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"query"})

	QueryCacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "query_cache_lookups_total",
		Help:      "Count of query cache lookups.",
	}, []string{"query", "result"})

	// Page Metrics
	PageEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "page_events_total",
		Help:      "Count of events handled by statistics pages.",
	}, []string{"event"})

	AsyncPanicsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "async_panics_total",
		Help:      "Count of panics recovered in background tasks.",
	}, []string{"task"})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Number of live statistics page sessions.",
	})

	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Count of HTTP requests by route and status.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Time taken to serve HTTP requests. Event streams count until the client leaves.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// Ingest Metrics
	IngestedRecordsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ingested_records_total",
		Help:      "Number of workflows and runs written to the repository.",
	}, []string{"kind"})
)
