package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbuslabs/nimbus-agent/internal/domain"
)

func msg(author string, role domain.Role, content string) *domain.Message {
	return &domain.Message{Author: author, Role: role, Content: content}
}

func testRegistry() *Registry {
	reg := NewRegistry()
	reg.Register("coordinator", "C1")
	reg.RegisterSpecialist("aws-specialist", "aws", "W1")
	reg.RegisterSpecialist("azure-specialist", "azure", "A1")
	return reg
}

func TestSelectNextCoordinatorFirst(t *testing.T) {
	policy := NewCrewPolicy("coordinator")
	reg := testRegistry()

	handle, reason := policy.SelectNext(nil, reg)
	assert.Equal(t, domain.ParticipantHandle("C1"), handle)
	assert.Contains(t, reason, "empty")
}

func TestSelectNextUserRoutesToCoordinator(t *testing.T) {
	policy := NewCrewPolicy("coordinator")
	reg := testRegistry()

	cases := map[string][]*domain.Message{
		"sentinel author": {msg(domain.EndUserAuthor, domain.RoleUser, "help")},
		"empty author":    {msg("", domain.RoleUser, "find a connector solution")},
		"user role only":  {msg("someone", domain.RoleUser, "hello")},
		"after specialists": {
			msg("coordinator", domain.RoleAgent, "let me check azure for a solution"),
			msg("azure-specialist", domain.RoleAgent, "done"),
			msg(domain.EndUserAuthor, domain.RoleUser, "thanks, one more thing"),
		},
	}

	for name, history := range cases {
		t.Run(name, func(t *testing.T) {
			handle, reason := policy.SelectNext(history, reg)
			assert.Equal(t, domain.ParticipantHandle("C1"), handle)
			assert.NotEmpty(t, reason)
		})
	}
}

func TestSelectNextSpecialistHandback(t *testing.T) {
	policy := NewCrewPolicy("coordinator")
	reg := testRegistry()

	history := []*domain.Message{
		msg(domain.EndUserAuthor, domain.RoleUser, "find a connector solution"),
		msg("coordinator", domain.RoleAgent, "Let me check azure for a solution"),
		msg("azure-specialist", domain.RoleAgent, "Azure findings attached."),
	}

	handle, reason := policy.SelectNext(history, reg)
	assert.Equal(t, domain.ParticipantHandle("C1"), handle)
	assert.Contains(t, reason, "hands control back")
}

func TestSelectNextTriggerPhrases(t *testing.T) {
	policy := NewCrewPolicy("coordinator")

	cases := []struct {
		name    string
		content string
		want    domain.ParticipantHandle
	}{
		{"azure check", "Let me check azure for a solution", "A1"},
		{"aws check", "I will CHECK the AWS account", "W1"},
		{"find solution goes to first specialist", "trying to find a solution here", "W1"},
		{"find connector", "need to find the right connector", "W1"},
		{"no trigger", "here is your answer", "C1"},
		{"find alone is not enough", "let me find out", "C1"},
		{"check alone is not enough", "let me check that", "C1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			history := []*domain.Message{
				msg(domain.EndUserAuthor, domain.RoleUser, "hi"),
				msg("coordinator", domain.RoleAgent, tc.content),
			}
			handle, reason := policy.SelectNext(history, testRegistry())
			assert.Equal(t, tc.want, handle)
			assert.NotEmpty(t, reason)
		})
	}
}

func TestSelectNextMissingCoordinator(t *testing.T) {
	policy := NewCrewPolicy("coordinator")
	reg := NewRegistry()
	reg.RegisterSpecialist("azure-specialist", "azure", "A1")

	handle, reason := policy.SelectNext(nil, reg)
	assert.Equal(t, HandleNotFound, handle)
	assert.Contains(t, reason, "not registered")
}

// Scenario from the routing contract: user opens with an unset author,
// the coordinator asks for azure help, the specialist hands back.
func TestSelectNextScenario(t *testing.T) {
	policy := NewCrewPolicy("coordinator")
	reg := NewRegistry()
	reg.Register("coordinator", "C1")
	reg.RegisterSpecialist("azure-specialist", "azure", "A1")

	history := []*domain.Message{
		msg("", domain.RoleUser, "find a connector solution"),
	}
	handle, _ := policy.SelectNext(history, reg)
	require.Equal(t, domain.ParticipantHandle("C1"), handle)

	history = append(history, msg("coordinator", domain.RoleAgent, "Let me check azure for a solution"))
	handle, _ = policy.SelectNext(history, reg)
	require.Equal(t, domain.ParticipantHandle("A1"), handle)

	history = append(history, msg("azure-specialist", domain.RoleAgent, "Connector options reviewed."))
	handle, _ = policy.SelectNext(history, reg)
	require.Equal(t, domain.ParticipantHandle("C1"), handle)
}

// The selector must be referentially transparent: same inputs, same
// outputs, no mutation of the history it reads.
func TestSelectNextIsPure(t *testing.T) {
	policy := NewCrewPolicy("coordinator")
	reg := testRegistry()

	history := []*domain.Message{
		msg(domain.EndUserAuthor, domain.RoleUser, "hi"),
		msg("coordinator", domain.RoleAgent, "Let me check azure for a solution"),
	}

	h1, r1 := policy.SelectNext(history, reg)
	h2, r2 := policy.SelectNext(history, reg)
	assert.Equal(t, h1, h2)
	assert.Equal(t, r1, r2)
	assert.Equal(t, "Let me check azure for a solution", history[1].Content)
}
