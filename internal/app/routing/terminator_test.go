package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nimbuslabs/nimbus-agent/internal/domain"
)

func TestShouldTerminateCapEnforced(t *testing.T) {
	policy := NewCrewPolicy("coordinator")

	// The cap wins regardless of history content, even over an empty log.
	histories := [][]*domain.Message{
		nil,
		{msg(domain.EndUserAuthor, domain.RoleUser, "hi")},
		{
			msg(domain.EndUserAuthor, domain.RoleUser, "hi"),
			msg("azure-specialist", domain.RoleAgent, "still working"),
		},
	}

	for _, history := range histories {
		done, reason := policy.ShouldTerminate(history, 20, 20)
		assert.True(t, done)
		assert.Equal(t, ReasonInvocationCap, reason)

		done, _ = policy.ShouldTerminate(history, 25, 20)
		assert.True(t, done)
	}
}

func TestShouldTerminateNeedsHistory(t *testing.T) {
	policy := NewCrewPolicy("coordinator")

	done, reason := policy.ShouldTerminate(nil, 0, 20)
	assert.False(t, done)
	assert.Equal(t, ReasonInsufficientHistory, reason)

	done, reason = policy.ShouldTerminate([]*domain.Message{
		msg(domain.EndUserAuthor, domain.RoleUser, "hi"),
	}, 1, 20)
	assert.False(t, done)
	assert.Equal(t, ReasonInsufficientHistory, reason)
}

func TestShouldTerminateExactness(t *testing.T) {
	policy := NewCrewPolicy("coordinator")

	userMsg := msg(domain.EndUserAuthor, domain.RoleUser, "find a connector solution")
	coordinatorMsg := msg("coordinator", domain.RoleAgent, "Here is the answer.")
	specialistMsg := msg("azure-specialist", domain.RoleAgent, "raw findings")

	done, reason := policy.ShouldTerminate([]*domain.Message{userMsg, coordinatorMsg}, 1, 20)
	assert.True(t, done)
	assert.Equal(t, ReasonCoordinatorReplied, reason)

	// A specialist speaking after the coordinator reopens the exchange.
	done, reason = policy.ShouldTerminate([]*domain.Message{userMsg, coordinatorMsg, specialistMsg}, 2, 20)
	assert.False(t, done)
	assert.Equal(t, ReasonContinuing, reason)

	// Coordinator chatter with no user turn at all never terminates.
	done, _ = policy.ShouldTerminate([]*domain.Message{
		msg("coordinator", domain.RoleAgent, "a"),
		msg("coordinator", domain.RoleAgent, "b"),
	}, 2, 20)
	assert.False(t, done)

	// The coordinator must speak after the user's latest input.
	done, _ = policy.ShouldTerminate([]*domain.Message{coordinatorMsg, userMsg}, 2, 20)
	assert.False(t, done)
}
