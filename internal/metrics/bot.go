// SPDX-License-Identifier: MIT

// Package metrics exposes Prometheus instrumentation for the bot.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "polyansky",
		Name:      "updates_total",
		Help:      "Processed Telegram updates by type and outcome",
	}, []string{"type", "outcome"})

	UpdateDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "polyansky",
		Name:      "update_duration_seconds",
		Help:      "Per-update handling latency",
		Buckets:   prometheus.DefBuckets,
	})

	JourneySearchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "polyansky",
		Name:      "journey_searches_total",
		Help:      "Journey searches by outcome (found, empty, error)",
	}, []string{"outcome"})

	JourneysFound = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "polyansky",
		Name:      "journeys_found",
		Help:      "Number of journeys returned per successful search",
		Buckets:   []float64{0, 1, 2, 3, 5, 10},
	})

	FSMTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "polyansky",
		Name:      "fsm_transitions_total",
		Help:      "Conversation state transitions by target state",
	}, []string{"state"})

	StorageErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "polyansky",
		Name:      "storage_errors_total",
		Help:      "Repository failures by operation",
	}, []string{"op"})

	ConversationsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "polyansky",
		Name:      "conversations_active",
		Help:      "Conversations currently holding state",
	})
)

// RecordUpdate counts one handled update.
func RecordUpdate(updateType, outcome string) {
	if updateType == "" {
		updateType = "unknown"
	}
	UpdatesTotal.WithLabelValues(updateType, outcome).Inc()
}

// RecordStorageError counts one failed repository call.
func RecordStorageError(op string) {
	if op == "" {
		op = "unknown"
	}
	StorageErrorsTotal.WithLabelValues(op).Inc()
}
