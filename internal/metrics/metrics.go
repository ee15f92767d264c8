package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "idea_evaluations_total",
			Help: "Total number of evaluation calls by outcome",
		},
		[]string{"outcome"},
	)

	EvaluationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "idea_evaluation_failures_total",
			Help: "Failed evaluation calls by error kind",
		},
		[]string{"kind"},
	)

	EvaluationGrades = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "idea_evaluation_grades_total",
			Help: "Completed evaluations by normalized grade",
		},
		[]string{"grade"},
	)

	EvaluationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "idea_evaluation_duration_seconds",
			Help:    "Duration of the upstream evaluation call in seconds",
			Buckets: []float64{1, 2.5, 5, 10, 20, 30, 60, 120},
		},
	)

	StatusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "idea_analysis_transitions_total",
			Help: "Analysis status transitions",
		},
		[]string{"from", "to"},
	)

	SubmissionsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "idea_submissions_rejected_total",
			Help: "Submissions rejected before an evaluation was issued",
		},
		[]string{"reason"},
	)
)
