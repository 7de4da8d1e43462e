// Package metrics exposes prometheus counters for the two write-side
// operations. Collectors register on the default registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Generations counts generation runs by outcome: ok, infeasible,
	// unschedulable, error.
	Generations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusched_generations_total",
		Help: "Timetable generation runs by outcome.",
	}, []string{"outcome"})

	// RecoveryEntries counts entries touched by disruption recovery by the
	// status they ended in: replaced, moved, cancelled.
	RecoveryEntries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusched_recovery_entries_total",
		Help: "Timetable entries repaired by disruption recovery, by result.",
	}, []string{"result"})
)
