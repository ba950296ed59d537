// Package metrics declares the custom Prometheus metrics of the gateway.
// HTTP request metrics come from echoprometheus; everything here is
// domain specific.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "examprep"

// Proxy outcomes.
const (
	OutcomeOK              = "ok"
	OutcomeBackendError    = "backend_error"
	OutcomeTransportError  = "transport_error"
	OutcomeInvalidResponse = "invalid_response"
)

// Guard decisions.
const (
	DecisionAllow         = "allow"
	DecisionRedirectLogin = "redirect_login"
	DecisionRedirectHome  = "redirect_home"
)

// ProxyUpstreamTotal counts backend calls made by the proxy routes.
// Labels:
//   - route: login, register, profile, logout, exams, attempts, statistics
//   - outcome: ok, backend_error (non-2xx), transport_error, invalid_response
var ProxyUpstreamTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "proxy_upstream_total",
		Help:      "Total number of backend calls issued by the proxy routes, by outcome.",
	},
	[]string{"route", "outcome"},
)

// ProxyUpstreamDuration measures backend round trips, including failures.
var ProxyUpstreamDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "proxy_upstream_duration_seconds",
		Help:      "Duration of backend calls issued by the proxy routes.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"route"},
)

// GuardDecisionsTotal counts route guard decisions.
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions (allow, redirect_login, redirect_home).",
	},
	[]string{"decision"},
)

// AttemptsRecordedTotal counts stored exam attempts.
// Label:
//   - timed_out: "true" when the countdown finished the attempt
var AttemptsRecordedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "attempts_recorded_total",
		Help:      "Total number of exam attempts recorded.",
	},
	[]string{"timed_out"},
)
