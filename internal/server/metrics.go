// Package server exposes Prometheus instrumentation for the Relay service.
package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "relay",
		Name:      "active_sessions",
		Help:      "Number of currently authenticated sessions.",
	})

	metricMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "relay",
		Name:      "messages_total",
		Help:      "Messages accepted for delivery, by kind.",
	}, []string{"kind"})

	metricAuthFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "relay",
		Name:      "auth_failures_total",
		Help:      "Connections rejected during authentication.",
	})

	metricGroupsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "relay",
		Name:      "groups_created_total",
		Help:      "Groups created over the process lifetime.",
	})
)
