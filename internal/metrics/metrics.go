package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	subsystem = "resumebot"

	submissionsTotal       = "submissions_total"
	extractionsTotal       = "extractions_total"
	webhookRequestDuration = "webhook_request_duration_seconds"

	// Labels
	outcomeLabel  = "outcome"
	methodLabel   = "method"
	fallbackLabel = "fallback"
	statusLabel   = "status"
)

// Submission outcomes beyond the validation rejections, which are recorded
// as "rejected_<reason>".
const (
	OutcomeCompleted    = "completed"
	OutcomeWebhookError = "webhook_error"
	OutcomeFailed       = "failed"
)

// Metrics owns a private registry so tests and multiple instances do not
// collide on the global one. A nil *Metrics records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	submissions     *prometheus.CounterVec
	extractions     *prometheus.CounterVec
	webhookDuration *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Subsystem: subsystem,
				Name:      submissionsTotal,
				Help:      "number of resume submissions by final outcome",
			},
			[]string{outcomeLabel},
		),
		extractions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Subsystem: subsystem,
				Name:      extractionsTotal,
				Help:      "number of text extractions by method and whether a parser failed first",
			},
			[]string{methodLabel, fallbackLabel},
		),
		webhookDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Subsystem: subsystem,
				Name:      webhookRequestDuration,
				Help:      "latency of workflow webhook calls",
				Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
			[]string{statusLabel},
		),
	}
	m.registry.MustRegister(m.submissions, m.extractions, m.webhookDuration)
	return m
}

func (m *Metrics) IncSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissions.With(prometheus.Labels{outcomeLabel: outcome}).Inc()
}

func (m *Metrics) IncExtraction(method string, fallback bool) {
	if m == nil {
		return
	}
	m.extractions.With(prometheus.Labels{
		methodLabel:   method,
		fallbackLabel: strconv.FormatBool(fallback),
	}).Inc()
}

func (m *Metrics) ObserveWebhook(status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.webhookDuration.With(prometheus.Labels{statusLabel: status}).Observe(elapsed.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
