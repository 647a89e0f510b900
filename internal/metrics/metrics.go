// Package metrics defines the Prometheus metrics of the portal.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "newsportal"

// LoginStepsTotal counts login protocol steps.
// Labels:
//   - step: "credentials", "step_up" or "cancel"
//   - result: "session", "step_up_required", "invalid_credentials",
//     "invalid_step_up", "invalid_state", "unavailable", "cancelled"
var LoginStepsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_steps_total",
		Help:      "Total number of login protocol steps, by step and result.",
	},
	[]string{"step", "result"},
)

// GuardDecisionsTotal counts access guard decisions.
// Label:
//   - outcome: ALLOW, REDIRECT_TO_LOGIN, REDIRECT_TO_HOME or FORBIDDEN
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of access guard decisions, by outcome.",
	},
	[]string{"outcome"},
)

// PendingLoginAttempts tracks actors currently holding a login attempt.
var PendingLoginAttempts = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "pending_login_attempts",
		Help:      "Number of actors with an in-progress login attempt.",
	},
)

// DirectoryLookupDuration measures user directory lookups.
var DirectoryLookupDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "directory_lookup_duration_seconds",
		Help:      "Duration of credential lookups against the user directory.",
		Buckets:   prometheus.DefBuckets,
	},
)
