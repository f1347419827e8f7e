package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront_orders",
		Subsystem: "http",
		Name:      "orders_created_total",
		Help:      "Total number of orders accepted through the intake endpoint.",
	})

	reportsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront_orders",
		Subsystem: "http",
		Name:      "reports_generated_total",
		Help:      "Total number of CSV reports generated, by variant.",
	}, []string{"variant"})
)
