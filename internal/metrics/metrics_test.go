package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RegisteredAndExposed(t *testing.T) {
	m := New()

	m.EventsConsumed.WithLabelValues("payment.completed", ResultOK).Inc()
	m.DeliveriesAttempted.Inc()
	m.DeliveriesSucceeded.Inc()
	m.DeliveriesSkipped.WithLabelValues(SkipNotSubscribed).Inc()
	m.AttemptDuration.Observe(0.2)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	out := string(body)
	assert.Contains(t, out, `relay_events_consumed_total{result="ok",topic="payment.completed"} 1`)
	assert.Contains(t, out, "relay_delivery_attempts_total 1")
	assert.Contains(t, out, "relay_deliveries_succeeded_total 1")
	assert.Contains(t, out, `relay_deliveries_skipped_total{reason="not_subscribed"} 1`)
	assert.Contains(t, out, "relay_delivery_attempt_seconds_bucket")
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.DeliveriesFailed.Inc()

	assert.Equal(t, float64(1), testutil.ToFloat64(a.DeliveriesFailed))
	assert.Equal(t, float64(0), testutil.ToFloat64(b.DeliveriesFailed))
}
