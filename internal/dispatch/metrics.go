package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "svitlobot_dispatch_cycles_total",
		Help: "Completed dispatcher cycles",
	})
	processedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "svitlobot_dispatch_subscriptions_total",
		Help: "Subscriptions examined across all cycles",
	})
	sentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "svitlobot_dispatch_sent_total",
		Help: "Alert messages delivered",
	})
	skippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "svitlobot_dispatch_skipped_total",
		Help: "Subscriptions skipped, by reason",
	}, []string{"reason"})
	failedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "svitlobot_dispatch_failed_total",
		Help: "Per-subscription failures, by stage",
	}, []string{"stage"})
)
