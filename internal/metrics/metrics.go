package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CollaborationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collaborations_created_total",
			Help: "Total number of collaboration requests persisted",
		},
		[]string{"kind"},
	)

	CollaborationsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collaborations_rejected_total",
			Help: "Total number of collaboration requests rejected before persistence",
		},
		[]string{"reason"},
	)

	NotificationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_created_total",
			Help: "Total number of notifications written",
		},
		[]string{"category"},
	)

	NotificationDeliveryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_delivery_failures_total",
			Help: "Total number of failed notification deliveries",
		},
		[]string{"path"},
	)

	OutboxBacklog = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notification_outbox_backlog",
			Help: "Undelivered outbox entries seen by the last relay pass",
		},
	)

	RelayPassDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "notification_outbox_relay_pass_seconds",
			Help: "Duration of one outbox relay pass in seconds",
		},
	)

	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)
)
