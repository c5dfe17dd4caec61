// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/protomem/resource-tracker/internal/model"
)

const _namespace = "tracker"

const (
	OutcomeAccepted        = "accepted"
	OutcomeAlreadyActive   = "already_active"
	OutcomeNoActiveSession = "no_active_session"
	OutcomeNotFound        = "not_found"
	OutcomeInvalid         = "invalid"
	OutcomeError           = "error"
)

type Metrics struct {
	Transitions     *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: _namespace,
			Subsystem: "lifecycle",
			Name:      "transitions_total",
			Help:      "Check-in and check-out requests by outcome.",
		}, []string{"operation", "outcome"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: _namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(m.Transitions, m.RequestDuration)

	return m
}

// ObserveTransition counts one lifecycle request. Safe on a nil receiver.
func (m *Metrics) ObserveTransition(operation string, err error) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(operation, Outcome(err)).Inc()
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeAccepted
	case errors.Is(err, model.ErrAlreadyActive):
		return OutcomeAlreadyActive
	case errors.Is(err, model.ErrNoActiveSession):
		return OutcomeNoActiveSession
	case errors.Is(err, model.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, model.ErrValidation):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}
