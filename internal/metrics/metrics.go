// Package metrics holds the Prometheus collectors of the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Connection metrics
var (
	ConnectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "imapcore_connections_total",
			Help: "Total number of connections established",
		},
	)

	ConnectionsCurrent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "imapcore_connections_current",
			Help: "Current number of active connections",
		},
	)

	AuthenticationAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "imapcore_authentication_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)

	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "imapcore_commands_total",
			Help: "Total number of commands handled",
		},
		[]string{"command", "status"},
	)
)

// Mailbox metrics
var (
	MessagesDelivered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "imapcore_messages_delivered_total",
			Help: "Total number of messages delivered into mailboxes",
		},
	)

	MessagesExpunged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "imapcore_messages_expunged_total",
			Help: "Total number of messages permanently removed",
		},
		[]string{"command"},
	)

	NotificationsQueued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "imapcore_notifications_queued_total",
			Help: "Total number of events queued for other sessions",
		},
		[]string{"type"},
	)

	JournalFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "imapcore_journal_failures_total",
			Help: "Total number of failed journal writes",
		},
		[]string{"operation"},
	)
)
