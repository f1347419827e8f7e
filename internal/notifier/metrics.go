package notifier

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	notificationsSent = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront_orders",
		Subsystem: "notifier",
		Name:      "notifications_sent_total",
		Help:      "Total number of order notifications successfully published.",
	})

	notificationsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront_orders",
		Subsystem: "notifier",
		Name:      "notifications_failed_total",
		Help:      "Total number of order notifications that exhausted delivery retries.",
	})

	notificationsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront_orders",
		Subsystem: "notifier",
		Name:      "notifications_dropped_total",
		Help:      "Total number of order notifications dropped due to a full queue.",
	})
)
