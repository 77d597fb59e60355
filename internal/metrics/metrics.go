// Package metrics defines Prometheus metrics for citegraph crawls.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Outcome labels for PapersTotal.
const (
	OutcomeDiscovered  = "discovered"
	OutcomeUnavailable = "unavailable"
	OutcomeDuplicate   = "duplicate"
)

var (
	FetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "citegraph_fetch_duration_seconds",
			Help:    "Paper fetch duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)

	PapersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "citegraph_papers_total",
			Help: "Frontier pops by outcome",
		},
		[]string{"outcome"},
	)

	EnqueuedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "citegraph_enqueued_total",
			Help: "Paper IDs appended to the frontier",
		},
	)

	MalformedRefsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "citegraph_malformed_refs_total",
			Help: "Reference, citation or author entries dropped for missing identifiers",
		},
		[]string{"kind"},
	)

	FrontierDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "citegraph_frontier_depth",
			Help: "Current frontier queue length",
		},
	)

	DiscoveredNodes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "citegraph_discovered_nodes",
			Help: "Papers in the discovered set of the current run",
		},
	)

	EdgeCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "citegraph_edges",
			Help: "Edges extracted in the last run",
		},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "citegraph_http_request_duration_seconds",
			Help:    "Status server request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "citegraph_http_requests_total",
			Help: "Total status server requests",
		},
		[]string{"method", "path", "status"},
	)

	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "citegraph_ws_connections",
			Help: "Active progress stream connections",
		},
	)
)

func init() {
	prometheus.MustRegister(
		FetchDuration, PapersTotal, EnqueuedTotal, MalformedRefsTotal,
		FrontierDepth, DiscoveredNodes, EdgeCount,
		RequestDuration, RequestsTotal, WSConnections,
	)
}
