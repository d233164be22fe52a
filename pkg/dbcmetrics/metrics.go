// Package dbcmetrics exposes Prometheus counters and histograms for the
// decode path: files opened, records decoded, segment parse outcomes,
// and truncated reads. A caller that never wires a Registry pays
// nothing beyond the promauto registration cost of DefaultRegistry.
package dbcmetrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every metric this module emits.
type Registry struct {
	FilesOpenedTotal   *prometheus.CounterVec
	OpenDuration       prometheus.Histogram
	RecordsDecodedTotal *prometheus.CounterVec
	DecodeDuration     *prometheus.HistogramVec
	SegmentsParsedTotal *prometheus.CounterVec
	TruncatedReadsTotal *prometheus.CounterVec
	PlanCacheHitsTotal  prometheus.Counter
	PlanCacheBuildsTotal prometheus.Counter

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide registry, building it on
// first use.
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry builds a fresh, independently-scoped registry — useful
// in tests that don't want to share state with DefaultRegistry.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{registry: reg}

	r.FilesOpenedTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "dbcdata_files_opened_total",
			Help: "Total number of client-data files opened, by signature and outcome.",
		},
		[]string{"signature", "status"},
	)

	r.OpenDuration = promauto.With(reg).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dbcdata_open_duration_seconds",
			Help:    "Time spent in one Open call, from header decode through plan build (and the eager decode when Strict is set).",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	r.RecordsDecodedTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "dbcdata_records_decoded_total",
			Help: "Total number of records materialized, by signature.",
		},
		[]string{"signature"},
	)

	r.DecodeDuration = promauto.With(reg).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dbcdata_decode_duration_seconds",
			Help:    "Per-record decode latency, by signature.",
			Buckets: []float64{0.000001, 0.000005, 0.00001, 0.00005, 0.0001, 0.0005, 0.001},
		},
		[]string{"signature"},
	)

	r.SegmentsParsedTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "dbcdata_segments_parsed_total",
			Help: "Total number of segments parsed, by tag.",
		},
		[]string{"segment"},
	)

	r.TruncatedReadsTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "dbcdata_truncated_reads_total",
			Help: "Reads that hit end-of-stream before their declared length, by segment.",
		},
		[]string{"segment"},
	)

	r.PlanCacheHitsTotal = promauto.With(reg).NewCounter(
		prometheus.CounterOpts{
			Name: "dbcdata_plan_cache_hits_total",
			Help: "Deserializer plan cache hits.",
		},
	)

	r.PlanCacheBuildsTotal = promauto.With(reg).NewCounter(
		prometheus.CounterOpts{
			Name: "dbcdata_plan_cache_builds_total",
			Help: "Deserializer plan cache misses that triggered a build.",
		},
	)

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry, for
// wiring into an HTTP /metrics handler.
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// RecordOpen records the outcome of one Open call.
func (r *Registry) RecordOpen(signature, status string, d time.Duration) {
	r.FilesOpenedTotal.WithLabelValues(signature, status).Inc()
	r.OpenDuration.Observe(d.Seconds())
}

// RecordDecode records one successfully materialized record.
func (r *Registry) RecordDecode(signature string, d time.Duration) {
	r.RecordsDecodedTotal.WithLabelValues(signature).Inc()
	r.DecodeDuration.WithLabelValues(signature).Observe(d.Seconds())
}

// RecordSegment records that a segment with the given tag was parsed.
func (r *Registry) RecordSegment(segment string) {
	r.SegmentsParsedTotal.WithLabelValues(segment).Inc()
}

// RecordTruncation records a short read against a segment's declared
// length.
func (r *Registry) RecordTruncation(segment string) {
	r.TruncatedReadsTotal.WithLabelValues(segment).Inc()
}

// RecordPlanCacheHit/RecordPlanCacheBuild record deserializer plan cache
// behavior.
func (r *Registry) RecordPlanCacheHit()   { r.PlanCacheHitsTotal.Inc() }
func (r *Registry) RecordPlanCacheBuild() { r.PlanCacheBuildsTotal.Inc() }
