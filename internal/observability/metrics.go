package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SelectorDecisions counts routing decisions per selected participant.
	SelectorDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nimbus_selector_decisions_total",
		Help: "Routing decisions made by the agent selector, by participant.",
	}, []string{"participant"})

	// Terminations counts finished conversations by termination reason.
	Terminations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nimbus_terminations_total",
		Help: "Conversation terminations, by reason.",
	}, []string{"reason"})

	// TurnDuration observes the wall time of one full routing loop run.
	TurnDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "nimbus_turn_duration_seconds",
		Help:    "Duration of a full user turn through the routing loop.",
		Buckets: prometheus.DefBuckets,
	})

	// ConversationFailures counts conversations marked failed.
	ConversationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nimbus_conversation_failures_total",
		Help: "Conversations that ended in the failed status.",
	})
)
