package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/nimbuslabs/nimbus-agent/internal/domain"
)

// MockLLM is a deterministic stand-in for the real model, used for local
// development and tests. It plays along with the routing protocol: the
// coordinator persona emits the specialist trigger phrasing when the user
// mentions a cloud, and summarizes whatever a specialist reported.
type MockLLM struct{}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

func (m *MockLLM) GenerateReply(ctx context.Context, inv domain.InvocationContext) (string, error) {
	if strings.Contains(inv.Persona, "specialist") {
		return m.specialistReply(inv), nil
	}
	return m.coordinatorReply(inv), nil
}

func (m *MockLLM) specialistReply(inv domain.InvocationContext) string {
	return fmt.Sprintf("Reviewed the environment as %s: no blocking issues; recommended next step is to review recent deployments.", inv.Persona)
}

func (m *MockLLM) coordinatorReply(inv domain.InvocationContext) string {
	if len(inv.History) > 0 {
		last := inv.History[len(inv.History)-1]
		if last.Role == domain.RoleAgent && last.Author != inv.Persona {
			// A specialist just reported; wrap it up for the user.
			return "Here is what the crew reports: " + last.Content
		}
	}

	user := lastUserContent(inv.History)
	switch {
	case strings.Contains(strings.ToLower(user), "azure"):
		return "Let me check azure for a solution."
	case strings.Contains(strings.ToLower(user), "aws"):
		return "Let me check aws for a solution."
	default:
		return fmt.Sprintf("I heard you say %q. Could you share more detail about your environment?", user)
	}
}

func lastUserContent(history []*domain.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].FromEndUser() {
			return history[i].Content
		}
	}
	return ""
}
