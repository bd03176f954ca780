package routing

import "github.com/nimbuslabs/nimbus-agent/internal/domain"

// Termination reasons. The cap reason doubles as a safety-bound marker in
// logs and metrics, so it stays a stable string.
const (
	ReasonInvocationCap       = "invocation cap reached"
	ReasonInsufficientHistory = "insufficient history"
	ReasonCoordinatorReplied  = "coordinator has replied to the user's latest input"
	ReasonContinuing          = "conversation continuing"
)

// ShouldTerminate reports whether the exchange is complete. Rules in
// order, first match wins:
//
//  1. The invocation cap is a hard bound against runaway loops and is
//     checked before any content-based logic.
//  2. Fewer than two messages can never conclude (at least one user turn
//     and one reply are required).
//  3. One scan of the history: terminate iff a user message exists, the
//     coordinator spoke after the user's latest turn, and nothing follows
//     the coordinator's message.
func (p *CrewPolicy) ShouldTerminate(history []*domain.Message, invocationCount, maxInvocations int) (bool, string) {
	if invocationCount >= maxInvocations {
		return true, ReasonInvocationCap
	}
	if len(history) < 2 {
		return false, ReasonInsufficientHistory
	}

	lastUser, lastCoordinator := -1, -1
	for i, m := range history {
		switch {
		case m.Author == p.coordinator:
			lastCoordinator = i
		case m.FromEndUser():
			lastUser = i
		}
	}

	if lastUser >= 0 && lastCoordinator > lastUser && lastCoordinator == len(history)-1 {
		return true, ReasonCoordinatorReplied
	}
	return false, ReasonContinuing
}
