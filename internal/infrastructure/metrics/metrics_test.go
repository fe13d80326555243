package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Observe(t *testing.T) {
	m := NewMetricsWithRegistry(prometheus.NewRegistry())

	m.Observe("create", "success", time.Now())
	m.Observe("create", "success", time.Now())
	m.Observe("delete", "not_found", time.Now())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.OperationsTotal.WithLabelValues("create", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationsTotal.WithLabelValues("delete", "not_found")))
}

func TestMetrics_ItemsAndFailures(t *testing.T) {
	m := NewMetricsWithRegistry(prometheus.NewRegistry())

	m.SetItems(4)
	m.PersistFailed()

	assert.Equal(t, 4.0, testutil.ToFloat64(m.Items))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PersistFailures))
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.Observe("create", "success", time.Now())
		m.SetItems(1)
		m.PersistFailed()
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.Observe("list_all", "success", time.Now())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "todod_operations_total")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
