// Package metrics defines and registers all custom Prometheus metrics for the
// CivicVoice API. It is the single source of truth for metric names, labels,
// and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "civicvoice"

// ── Authentication metrics ────────────────────────────────────────────────────

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

// SessionsRevokedTotal counts explicit logouts.
var SessionsRevokedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_revoked_total",
		Help:      "Total number of sessions destroyed by explicit logout.",
	},
)

// ── Password-reset metrics ────────────────────────────────────────────────────

// ResetRequestsTotal counts reset-code requests.
// Label:
//   - outcome: "accepted" (generic success, known or unknown email) or "failed"
var ResetRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_reset_requests_total",
		Help:      "Total number of password reset requests, by public outcome.",
	},
	[]string{"outcome"},
)

// OTPVerificationsTotal counts OTP checks.
// Label:
//   - result: "valid" or "invalid"
var OTPVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_verifications_total",
		Help:      "Total number of OTP verification attempts, by result.",
	},
	[]string{"result"},
)

// ResetsCompletedTotal counts terminal password resets.
var ResetsCompletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_resets_completed_total",
		Help:      "Total number of successfully completed password resets.",
	},
)

// ── Report metrics ────────────────────────────────────────────────────────────

// ReportsCreatedTotal counts newly filed reports.
// Label:
//   - category: "streetlight", "pothole", "garbage", "traffic", "other"
var ReportsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_created_total",
		Help:      "Total number of reports submitted, by category.",
	},
	[]string{"category"},
)

// StatusUpdatesTotal counts triage decisions.
// Label:
//   - new_status: the status applied by the update
var StatusUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "report_status_updates_total",
		Help:      "Total number of report status updates, by new status.",
	},
	[]string{"new_status"},
)
