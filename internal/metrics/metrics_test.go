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

	"github.com/ppiankov/claimroute/internal/model"
)

func TestObserveClaim(t *testing.T) {
	m := New(false)

	m.ObserveClaim(&model.Result{
		RecommendedRoute: model.QueueManualReview,
		MissingFields:    []string{"policy_number", "estimated_damage"},
	}, 2*time.Millisecond)
	m.ObserveClaim(&model.Result{
		RecommendedRoute: model.QueueInvestigation,
		MissingFields:    []string{},
		Metadata:         model.Metadata{FraudIndicators: true, InjuryClaim: true},
	}, time.Millisecond)
	m.ObserveClaim(&model.Result{
		RecommendedRoute: model.QueueManualReview,
		MissingFields:    []string{"policy_number"},
	}, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.claims.WithLabelValues(string(model.QueueManualReview))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.claims.WithLabelValues(string(model.QueueInvestigation))))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.missingFields.WithLabelValues("policy_number")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.missingFields.WithLabelValues("estimated_damage")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fraudFlags))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.injuryClaims))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveClaim(&model.Result{}, time.Second)
		m.ObserveSourceError("file")
		m.ObserveHTTP("/health", 200)
		m.ObserveSummary("ok")
	})
}

func TestHandler(t *testing.T) {
	m := New(true)
	m.ObserveSourceError("url")
	m.ObserveHTTP("/api/v1/claims", http.StatusBadRequest)
	m.ObserveSummary("error")

	server := httptest.NewServer(m.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, `claimroute_source_errors_total{kind="url"} 1`)
	assert.Contains(t, text, `claimroute_http_requests_total{code="400",path="/api/v1/claims"} 1`)
	assert.Contains(t, text, `claimroute_adjuster_summaries_total{outcome="error"} 1`)
	assert.Contains(t, text, "go_goroutines")
}
