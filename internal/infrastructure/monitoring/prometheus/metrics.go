package prometheus

import (
	"strconv"
	"time"

	"github.com/turtacn/CoverGap-Intelligence/internal/domain/coverage"
)

// Cache lookup outcomes.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// GapMetrics holds the service metrics.  A nil *GapMetrics records nothing.
type GapMetrics struct {
	// HTTP
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Analysis
	AnalysesTotal    CounterVec
	AnalysisDuration HistogramVec
	OverallScore     HistogramVec
	GapsDetected     CounterVec
	PolicyTruncated  CounterVec

	// Backends
	CacheRequests   CounterVec
	EventsPublished CounterVec
	ReportsStored   CounterVec
	ErrorsTotal     CounterVec

	BuildInfo GaugeVec
}

var (
	DefaultHTTPDurationBuckets     = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultAnalysisDurationBuckets = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5}
	ScoreBuckets                   = []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
)

// NewGapMetrics registers every metric on collector.
func NewGapMetrics(collector MetricsCollector) *GapMetrics {
	m := &GapMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "route", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "route")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "In-flight HTTP requests", "method")

	m.AnalysesTotal = collector.RegisterCounter("analyses_total", "Completed gap analyses", "path", "region", "category", "source")
	m.AnalysisDuration = collector.RegisterHistogram("analysis_duration_seconds", "Matcher run time", DefaultAnalysisDurationBuckets, "path")
	m.OverallScore = collector.RegisterHistogram("analysis_overall_score", "Overall coverage score", ScoreBuckets, "category")
	m.GapsDetected = collector.RegisterCounter("gaps_detected_total", "Gaps found by severity", "category", "severity")
	m.PolicyTruncated = collector.RegisterCounter("policy_truncated_total", "Policies truncated before matching")

	m.CacheRequests = collector.RegisterCounter("cache_requests_total", "Analysis cache lookups", "result")
	m.EventsPublished = collector.RegisterCounter("events_published_total", "Analysis events published", "status")
	m.ReportsStored = collector.RegisterCounter("reports_stored_total", "Reports written to the store", "status")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Errors by operation and code", "operation", "code")

	m.BuildInfo = collector.RegisterGauge("build_info", "Build information", "version")

	return m
}

func status(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// RecordHTTPRequest records a finished request.
func (m *GapMetrics) RecordHTTPRequest(method, route string, statusCode int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// TrackInFlight increments the in-flight gauge and returns its decrement.
func (m *GapMetrics) TrackInFlight(method string) func() {
	if m == nil {
		return func() {}
	}
	g := m.HTTPActiveRequests.WithLabelValues(method)
	g.Inc()
	return g.Dec
}

// RecordAnalysis records a completed analysis.  source is "matcher" or "cache".
func (m *GapMetrics) RecordAnalysis(r *coverage.Report, source string, d time.Duration) {
	if m == nil || r == nil {
		return
	}
	category := string(r.PolicyCategory)
	m.AnalysesTotal.WithLabelValues(string(r.Path), string(r.Region), category, source).Inc()
	if source != "matcher" {
		return
	}
	m.AnalysisDuration.WithLabelValues(string(r.Path)).Observe(d.Seconds())
	m.OverallScore.WithLabelValues(category).Observe(float64(r.OverallScore))
	for _, f := range r.Gaps() {
		m.GapsDetected.WithLabelValues(category, string(f.Severity)).Inc()
	}
}

func (m *GapMetrics) RecordTruncated() {
	if m == nil {
		return
	}
	m.PolicyTruncated.WithLabelValues().Inc()
}

// RecordCache records a cache lookup outcome (CacheHit, CacheMiss, CacheError).
func (m *GapMetrics) RecordCache(result string) {
	if m == nil {
		return
	}
	m.CacheRequests.WithLabelValues(result).Inc()
}

func (m *GapMetrics) RecordEventPublished(err error) {
	if m == nil {
		return
	}
	m.EventsPublished.WithLabelValues(status(err)).Inc()
}

func (m *GapMetrics) RecordReportStored(err error) {
	if m == nil {
		return
	}
	m.ReportsStored.WithLabelValues(status(err)).Inc()
}

func (m *GapMetrics) RecordError(operation, code string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(operation, code).Inc()
}

func (m *GapMetrics) SetBuildInfo(version string) {
	if m == nil {
		return
	}
	m.BuildInfo.WithLabelValues(version).Set(1)
}

//Personal.AI order the ending
