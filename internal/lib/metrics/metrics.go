// Package metrics prometheus-метрики companion-сервиса.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/magabrotheeeer/resume-builder/internal/models"
)

const namespace = "resume_builder"

// Metrics набор коллекторов сервиса.
type Metrics struct {
	Requests    *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
	Transitions *prometheus.CounterVec
	Gates       *prometheus.CounterVec
}

// New создаёт коллекторы и регистрирует их в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests handled by the companion API.",
		}, []string{"method", "route", "status"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entitlement_transitions_total",
			Help:      "Entitlement state transitions.",
		}, []string{"from", "to"}),
		Gates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gate_decisions_total",
			Help:      "Generation gate decisions.",
		}, []string{"gate"}),
	}
	reg.MustRegister(m.Requests, m.Duration, m.Transitions, m.Gates)
	return m
}

// Transition учитывает смену состояния прав.
func (m *Metrics) Transition(from, to models.State) {
	m.Transitions.WithLabelValues(string(from), string(to)).Inc()
}

// Gate учитывает решение гейта генерации.
func (m *Metrics) Gate(gate string) {
	m.Gates.WithLabelValues(gate).Inc()
}
