package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Record(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordLinkage(true, "direct")
	m.RecordLinkage(false, "unresolved")
	m.RecordLinkage(false, "unresolved")
	m.RecordCapacityDenied()
	m.RecordEnrollment("created")
	m.CacheHit("catalog")
	m.CacheMiss("catalog")
	m.ObserveMaster("count_enrollments", time.Now())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.LinkageDecisions.WithLabelValues("allowed", "direct")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LinkageDecisions.WithLabelValues("denied", "unresolved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CapacityDenied))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CatalogCache.WithLabelValues("hit")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordLinkage(true, "direct")
		m.RecordCapacityDenied()
		m.RecordEnrollment("created")
		m.RecordRegistration("created")
		m.CacheHit("k")
		m.CacheMiss("k")
		m.ObserveMaster("op", time.Now())
		m.RecordEmail("sent")
	})
}
