// Package metrics defines and registers all custom Prometheus metrics for the
// TimeTracer API. It is the single source of truth for metric names, labels,
// and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "timetracer"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// EntrySubmissionsTotal counts time-entry submissions.
// Label:
//   - outcome: "created", "updated", "conflict" or "rejected"
var EntrySubmissionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entry_submissions_total",
		Help:      "Total number of time entry submissions, by outcome.",
	},
	[]string{"outcome"},
)

// UsersCreatedTotal counts accounts created through the user directory.
// Label:
//   - role: "admin", "manager" or "worker"
var UsersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of user accounts created, by role.",
	},
	[]string{"role"},
)

// PolicyDenialsTotal counts authorization denials surfaced to callers.
// Label:
//   - resource: "user" or "time_entry"
var PolicyDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "policy_denials_total",
		Help:      "Total number of forbidden responses, by resource kind.",
	},
	[]string{"resource"},
)
