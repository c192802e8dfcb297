package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "domaintracker"

var (
	// CacheRequests counts entity cache lookups by collection and result
	// (hit, miss, error).
	CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entity_cache_requests_total",
		Help:      "Entity cache lookups by collection and result.",
	}, []string{"collection", "result"})

	// LoaderFailures counts failed connection loads by loader and kind
	// (validation, database, cursor).
	LoaderFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "loader_failures_total",
		Help:      "Failed connection loads by loader and failure kind.",
	}, []string{"loader", "kind"})

	LoaderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "loader_duration_seconds",
		Help:      "Connection load latency by loader.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"loader"})

	ScansIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scans_ingested_total",
		Help:      "Scan results written by type.",
	}, []string{"type"})

	ScansRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scans_rejected_total",
		Help:      "Scan messages skipped by reason.",
	}, []string{"reason"})
)
