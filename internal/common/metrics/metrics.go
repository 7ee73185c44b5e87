// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TurnsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_turns_processed_total",
			Help: "Total number of conversation turns processed",
		},
		[]string{"outcome"},
	)

	DialogsStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_dialogs_started_total",
			Help: "Total number of dialogs invoked",
		},
		[]string{"dialog"},
	)

	DialogsEnded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_dialogs_ended_total",
			Help: "Total number of dialogs popped from a stack",
		},
		[]string{"dialog"},
	)

	PromptsIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_prompts_issued_total",
			Help: "Total number of prompts sent to users",
		},
		[]string{"kind"},
	)

	ExternalRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "bot_external_request_duration_seconds",
			Help: "Duration of calls to external collaborators",
		},
		[]string{"service"},
	)
)
