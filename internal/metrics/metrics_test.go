package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCounters(t *testing.T) {
	m := New()

	m.IncSubmission(OutcomeCompleted)
	m.IncSubmission(OutcomeCompleted)
	m.IncSubmission("rejected_bad_email")
	m.IncExtraction("pdf", false)
	m.IncExtraction("raw", true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.submissions.WithLabelValues(OutcomeCompleted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues("rejected_bad_email")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.extractions.WithLabelValues("pdf", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.extractions.WithLabelValues("raw", "true")))
}

func TestObserveWebhook(t *testing.T) {
	m := New()
	m.ObserveWebhook("200", 2*time.Second)
	m.ObserveWebhook("error", time.Second)

	assert.Equal(t, 2, testutil.CollectAndCount(m.webhookDuration))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncSubmission(OutcomeFailed)
		m.IncExtraction("raw", false)
		m.ObserveWebhook("500", time.Millisecond)
	})
}

func TestRouter(t *testing.T) {
	m := New()
	m.IncSubmission(OutcomeWebhookError)
	server := httptest.NewServer(NewRouter(m))
	defer server.Close()

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))

	resp, err = http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `resumebot_submissions_total{outcome="webhook_error"} 1`)
}

func TestServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, "127.0.0.1:0", New(), zap.NewNop())
	}()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
