package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks linkage decisions, capacity denials, enrollments and the
// catalog cache. All methods are safe on a nil receiver.
type Metrics struct {
	LinkageDecisions    *prometheus.CounterVec
	CapacityDenied      prometheus.Counter
	Enrollments         *prometheus.CounterVec
	Registrations       *prometheus.CounterVec
	CatalogCache        *prometheus.CounterVec
	MasterQueryDuration *prometheus.HistogramVec
	EmailsSent          *prometheus.CounterVec
	HTTPRequests        *prometheus.CounterVec
	HTTPDuration        *prometheus.HistogramVec
}

// New registers the portal metrics with reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LinkageDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_linkage_decisions_total",
			Help: "Field rep linkage decisions by outcome and resolution path",
		}, []string{"outcome", "path"}),
		CapacityDenied: factory.NewCounter(prometheus.CounterOpts{
			Name: "portal_capacity_denied_total",
			Help: "Registrations refused because the campaign doctor limit was reached",
		}),
		Enrollments: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_enrollments_total",
			Help: "Enrollment writes by outcome",
		}, []string{"outcome"}),
		Registrations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_registrations_total",
			Help: "Doctor registrations by result",
		}, []string{"result"}),
		CatalogCache: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_catalog_cache_total",
			Help: "Catalog cache lookups by result",
		}, []string{"result"}),
		MasterQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_master_operation_duration_seconds",
			Help:    "Duration of master store operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),
		EmailsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_emails_total",
			Help: "Doctor link emails by result",
		}, []string{"result"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// RecordLinkage counts a linkage decision
func (m *Metrics) RecordLinkage(allowed bool, path string) {
	if m == nil {
		return
	}
	outcome := "denied"
	if allowed {
		outcome = "allowed"
	}
	m.LinkageDecisions.WithLabelValues(outcome, path).Inc()
}

// RecordCapacityDenied counts a capacity refusal
func (m *Metrics) RecordCapacityDenied() {
	if m == nil {
		return
	}
	m.CapacityDenied.Inc()
}

// RecordEnrollment counts an enrollment outcome such as "created"
func (m *Metrics) RecordEnrollment(outcome string) {
	if m == nil {
		return
	}
	m.Enrollments.WithLabelValues(outcome).Inc()
}

// RecordRegistration counts a registration result
func (m *Metrics) RecordRegistration(result string) {
	if m == nil {
		return
	}
	m.Registrations.WithLabelValues(result).Inc()
}

// CacheHit and CacheMiss match the cache observer signature
func (m *Metrics) CacheHit(string) {
	if m == nil {
		return
	}
	m.CatalogCache.WithLabelValues("hit").Inc()
}

func (m *Metrics) CacheMiss(string) {
	if m == nil {
		return
	}
	m.CatalogCache.WithLabelValues("miss").Inc()
}

// ObserveMaster records a master operation duration.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveMaster(operation string, start time.Time) {
	if m == nil {
		return
	}
	m.MasterQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// RecordEmail counts an email send result
func (m *Metrics) RecordEmail(result string) {
	if m == nil {
		return
	}
	m.EmailsSent.WithLabelValues(result).Inc()
}

// ObserveHTTP records one served request. route is the mux pattern, or
// "unmatched" when none applied.
func (m *Metrics) ObserveHTTP(method, route string, status int, start time.Time) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
}
