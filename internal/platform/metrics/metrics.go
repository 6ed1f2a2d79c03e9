// Package metrics provides Prometheus metric collection and exposure.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the interface the service layer uses to record
// registration outcomes without depending on Prometheus directly.
type Recorder interface {
	RecordRegistration()
	RecordRegistrationFailure(reason string)
	RecordWelcomeEmail(outcome string)
	RecordHTTPRequest(method, route string, statusCode int, duration time.Duration)
}

// Failure reason labels for registration_failures_total.
const (
	ReasonDuplicateUsername = "duplicate_username"
	ReasonInvalidInput      = "invalid_input"
	ReasonStorage           = "storage"
)

// Welcome email outcome labels for welcome_emails_total.
const (
	OutcomeSent    = "sent"
	OutcomeFailed  = "failed"
	OutcomeDropped = "dropped"
)

// Collector implements Recorder backed by Prometheus metrics.
type Collector struct {
	registrations        prometheus.Counter
	registrationFailures *prometheus.CounterVec
	welcomeEmails        *prometheus.CounterVec
	httpDuration         *prometheus.HistogramVec
}

// NewCollector creates a new Collector and registers its metrics with the
// given registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "enroll_registrations_total",
			Help: "Total number of successfully registered accounts",
		}),
		registrationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "enroll_registration_failures_total",
			Help: "Total number of failed registration attempts by reason",
		}, []string{"reason"}),
		welcomeEmails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "enroll_welcome_emails_total",
			Help: "Total number of welcome notifications by outcome",
		}, []string{"outcome"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "enroll_http_request_duration_seconds",
			Help:    "HTTP request latency by method, route and status code",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status_code"}),
	}

	reg.MustRegister(
		c.registrations,
		c.registrationFailures,
		c.welcomeEmails,
		c.httpDuration,
	)

	return c
}

// RecordRegistration increments the successful registration counter.
func (c *Collector) RecordRegistration() {
	c.registrations.Inc()
}

// RecordRegistrationFailure increments the failure counter for the reason.
func (c *Collector) RecordRegistrationFailure(reason string) {
	c.registrationFailures.WithLabelValues(reason).Inc()
}

// RecordWelcomeEmail increments the welcome notification counter for the outcome.
func (c *Collector) RecordWelcomeEmail(outcome string) {
	c.welcomeEmails.WithLabelValues(outcome).Inc()
}

// RecordHTTPRequest records the latency of one handled request.
func (c *Collector) RecordHTTPRequest(
	method, route string,
	statusCode int,
	duration time.Duration,
) {
	c.httpDuration.WithLabelValues(method, route, strconv.Itoa(statusCode)).
		Observe(duration.Seconds())
}

// Handler returns the HTTP handler exposing the registry's metrics.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// Noop is a Recorder that discards all observations. Useful in tests and
// in code paths where no registry is wired.
type Noop struct{}

func (Noop) RecordRegistration()                                          {}
func (Noop) RecordRegistrationFailure(string)                             {}
func (Noop) RecordWelcomeEmail(string)                                    {}
func (Noop) RecordHTTPRequest(_ string, _ string, _ int, _ time.Duration) {}

var _ Recorder = (*Collector)(nil)
var _ Recorder = Noop{}
