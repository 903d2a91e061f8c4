package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	decisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "subscription_gate_decisions_total",
		Help: "Количество решений гейта по исходам.",
	}, []string{"outcome"})

	validationsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "subscription_gate_validations_in_flight",
		Help: "Количество незавершённых запросов к биллингу.",
	})
)
