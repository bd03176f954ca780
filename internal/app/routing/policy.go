package routing

import "github.com/nimbuslabs/nimbus-agent/internal/domain"

// Policy decides which participant speaks next, when a conversation is
// done, and what text is returned to the caller. All three operations
// are pure given their inputs: no hidden counters, no I/O.
type Policy interface {
	SelectNext(history []*domain.Message, registry *Registry) (domain.ParticipantHandle, string)
	ShouldTerminate(history []*domain.Message, invocationCount, maxInvocations int) (bool, string)
	ExtractResult(history []*domain.Message) string
}

// CrewPolicy is the single concrete routing policy: a coordinator fronts
// the end user and hands work to specialists via trigger phrases;
// specialists always hand control back.
type CrewPolicy struct {
	coordinator string
}

func NewCrewPolicy(coordinatorName string) *CrewPolicy {
	return &CrewPolicy{coordinator: coordinatorName}
}

// CoordinatorName returns the display name this policy routes through.
func (p *CrewPolicy) CoordinatorName() string {
	return p.coordinator
}
