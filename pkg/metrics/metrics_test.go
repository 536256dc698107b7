package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

var errMissing = errors.New("missing")

func TestObserveDB(t *testing.T) {
	m := New("test")

	m.ObserveDB("patients", "get", time.Now(), nil, errMissing)
	m.ObserveDB("patients", "get", time.Now(), errMissing, errMissing)
	m.ObserveDB("patients", "get", time.Now(), errors.New("boom"), errMissing)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.DatabaseOperations.WithLabelValues("patients", "get", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DatabaseOperations.WithLabelValues("patients", "get", "not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DatabaseOperations.WithLabelValues("patients", "get", "error")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveDB("doctors", "list", time.Now(), nil, nil)
		m.ObserveRequest("GET", "/doctors", 200, time.Millisecond)
		m.ObserveEvent("doctor.created", nil)
	})
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New("medoffice")
	m.ObserveRequest("GET", "/patients", 200, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `medoffice_http_requests_total{method="GET",path="/patients",status="200"} 1`)
}
