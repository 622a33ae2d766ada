// Package metrics defines and registers all custom Prometheus metrics for
// the device-risk platform auth API. It is the single source of truth for
// metric names, labels, and help strings.
//
// Metrics register with the default Prometheus registry via promauto at
// package load; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "auth"

// LoginsTotal counts login attempts.
// Labels:
//   - outcome: "success" or "failure"
//   - kind: "user", "manufacturer", or "unknown" when authentication failed
//     before a principal was resolved
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome and principal kind.",
	},
	[]string{"outcome", "kind"},
)

// RegistrationsTotal counts manufacturer registration attempts.
// Label:
//   - result: "created", "duplicate_username", "duplicate_email", or "invalid"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of manufacturer registration attempts, by result.",
	},
	[]string{"result"},
)

// TokenVerificationsTotal counts bearer-token principal resolutions.
// Label:
//   - outcome: "ok" or "rejected"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of bearer token resolutions, by outcome.",
	},
	[]string{"outcome"},
)
