// Package metrics defines the application's Prometheus collectors.
// They are registered by the metrics server and incremented from the
// engine facade.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// InterventionsTotal counts planned interventions by level.
	InterventionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spend_intervention_interventions_total",
			Help: "Total number of planned interventions",
		},
		[]string{"level"},
	)

	// OutcomesTotal counts resolved interventions by outcome.
	OutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spend_intervention_outcomes_total",
			Help: "Total number of resolved interventions",
		},
		[]string{"outcome"},
	)

	// BehaviorsTotal counts observed behavior signals by kind.
	BehaviorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spend_intervention_behaviors_total",
			Help: "Total number of observed behavior signals",
		},
		[]string{"kind"},
	)

	// AchievementUnlocksTotal counts achievement unlocks by ID.
	AchievementUnlocksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spend_intervention_achievement_unlocks_total",
			Help: "Total number of achievement unlocks",
		},
		[]string{"achievement_id"},
	)

	// SavedAmountTotal accumulates the amount saved by blocks.
	SavedAmountTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "spend_intervention_saved_amount_total",
			Help: "Total amount saved across blocked purchases",
		},
	)
)

// Collectors returns every application collector for registration.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		InterventionsTotal,
		OutcomesTotal,
		BehaviorsTotal,
		AchievementUnlocksTotal,
		SavedAmountTotal,
	}
}
