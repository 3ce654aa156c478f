package metrics

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

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveEvaluation(true, 82)
	m.ObserveEvaluation(false, 40)
	m.ObserveEvaluation(false, 65)
	m.ObserveSectionFailure("distribution")
	m.ObserveSectionFailure("distribution")
	m.ObserveDataUnavailable("series")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.evaluations.WithLabelValues("true")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.evaluations.WithLabelValues("false")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.sectionFailures.WithLabelValues("distribution")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.unavailable.WithLabelValues("series")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.scores))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveHTTP(http.MethodGet, "/api/health", 200, 3*time.Millisecond)
	m.ObserveEvaluation(true, 90)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `gridscout_http_requests_total{method="GET",route="/api/health",status="200"} 1`)
	assert.Contains(t, string(body), `gridscout_evaluations_total{suitable="true"} 1`)
	assert.Contains(t, string(body), "gridscout_evaluation_score_count 1")
}

func TestMetrics_RegistriesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.ObserveDataUnavailable("metadata")
	assert.Equal(t, 0.0, testutil.ToFloat64(b.unavailable.WithLabelValues("metadata")))
}
