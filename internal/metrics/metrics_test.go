package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryIsolated(t *testing.T) {
	a := New()
	b := New()

	a.Forecasts.WithLabelValues("linear", "ok").Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(a.Forecasts.WithLabelValues("linear", "ok")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Forecasts.WithLabelValues("linear", "ok")))
}

func TestHandler(t *testing.T) {
	r := New()
	r.UpstreamCalls.WithLabelValues("marketing", "error").Inc()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.Nil(t, err)
	assert.Contains(t, string(body), `labelpulse_upstream_calls_total{operation="marketing",outcome="error"} 1`)
}
