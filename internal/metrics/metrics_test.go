package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_CountsOutcomes(t *testing.T) {
	m := New("test")

	m.ShipmentSubmitted("written")
	m.ShipmentSubmitted("written")
	m.ShipmentSubmitted("no_row")
	m.InventoryLoaded("ok")
	m.InventoryCacheHit()
	m.ObserveRequest("GET", "/api/inventory", 200, 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ShipmentSubmissions.WithLabelValues("written")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ShipmentSubmissions.WithLabelValues("no_row")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InventoryLoads.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InventoryCacheHits))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/inventory", "200")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ShipmentSubmitted("written")
		m.InventoryLoaded("error")
		m.InventoryCacheHit()
		m.ObserveRequest("GET", "", 500, time.Second)
	})
	assert.NotNil(t, m.Handler())
}
