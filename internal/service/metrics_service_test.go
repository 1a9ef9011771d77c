package service

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceCounters(t *testing.T) {
	m := NewMetricsService()
	m.RecordLogin(true)
	m.RecordLogin(false)
	m.RecordLogin(false)
	m.RecordRosterChange("Chess Club", "signup")
	m.ObserveHTTPRequest(http.MethodGet, "/activities", http.StatusOK, 5*time.Millisecond)
	m.ObserveDBQuery("activities_list", time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.loginAttempts.WithLabelValues("success")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.loginAttempts.WithLabelValues("failure")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.rosterChanges.WithLabelValues("Chess Club", "signup")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requestTotal.WithLabelValues(http.MethodGet, "/activities", "200")))
}

func TestMetricsServiceHandlerExposesRegistry(t *testing.T) {
	m := NewMetricsService()
	m.RecordLogin(true)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body, _ := io.ReadAll(w.Body)
	assert.Contains(t, string(body), `teacher_login_attempts_total{result="success"} 1`)
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	m.RecordLogin(true)
	m.RecordRosterChange("Chess Club", "signup")
	m.ObserveDBQuery("x", time.Millisecond)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
