package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	evaluationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "geofence_evaluations_total",
		Help: "Member location updates evaluated.",
	})
	pairsEvaluatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "geofence_pairs_evaluated_total",
		Help: "Group/member pairs classified and persisted.",
	})
	pairsSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "geofence_pairs_skipped_total",
		Help: "Group/member pairs skipped, by configuration-error reason.",
	}, []string{"reason"})
	alertsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "geofence_alerts_total",
		Help: "First-crossing alerts dispatched.",
	})
	alertFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "geofence_alert_failures_total",
		Help: "Alert dispatches that failed.",
	})
)
