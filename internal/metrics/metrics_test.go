package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.RepairCompleted()
	m.RepairCompleted()
	m.Purged(5)
	m.Purged(0)
	m.ObserveRequest(http.MethodGet, "/api/owners", http.StatusOK, 15*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RepairsCompleted))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.CompletedWorkPurged))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/api/owners", "200")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RepairCompleted()
		m.Purged(3)
		m.ObserveRequest("GET", "/", 200, time.Second)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.RepairCompleted()

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "autoservice_repairs_completed_total 1"))
}
