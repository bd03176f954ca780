package routing

import "github.com/nimbuslabs/nimbus-agent/internal/domain"

// FallbackResult is returned to the caller when a terminated conversation
// contains no coordinator-authored message. The end user only ever sees
// coordinator text or this string.
const FallbackResult = "Processing complete."

// ExtractResult returns the coordinator's most recent message, the value
// handed back to the external caller once termination fires.
func (p *CrewPolicy) ExtractResult(history []*domain.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Author == p.coordinator {
			return history[i].Content
		}
	}
	return FallbackResult
}
