package crew

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nimbuslabs/nimbus-agent/internal/domain"
	"github.com/nimbuslabs/nimbus-agent/internal/observability"
)

// Runtime invokes crew personas through an LLM client. It implements
// domain.ParticipantRuntime; the routing loop owns appending the result.
type Runtime struct {
	llm      domain.LLMClient
	personas map[domain.ParticipantHandle]*Persona
	now      func() time.Time
}

func NewRuntime(llm domain.LLMClient, c *Crew) *Runtime {
	personas := map[domain.ParticipantHandle]*Persona{
		c.Coordinator.Handle: c.Coordinator,
	}
	for _, sp := range c.Specialists {
		personas[sp.Handle] = sp
	}

	return &Runtime{
		llm:      llm,
		personas: personas,
		now:      time.Now,
	}
}

// Invoke produces a new message authored by the selected participant.
func (r *Runtime) Invoke(ctx context.Context, handle domain.ParticipantHandle, conv *domain.Conversation) (*domain.Message, error) {
	persona, ok := r.personas[handle]
	if !ok {
		return nil, fmt.Errorf("unknown participant handle %q", handle)
	}

	log := observability.LoggerFromContext(ctx).With(
		"session_id", conv.SessionID,
		"participant", persona.Name,
	)

	start := r.now()
	reply, err := r.llm.GenerateReply(ctx, domain.InvocationContext{
		SessionID: conv.SessionID,
		Persona:   persona.Name,
		System:    systemPrompt(persona),
		History:   conv.Messages,
	})
	if err != nil {
		log.Error("participant invocation failed", "error", err)
		return nil, fmt.Errorf("participant %s: %w", persona.Name, err)
	}

	log.Info("participant replied", "elapsed_ms", time.Since(start).Milliseconds())

	return &domain.Message{
		ID:        domain.MessageID(uuid.NewString()),
		SessionID: conv.SessionID,
		Author:    persona.Name,
		Role:      domain.RoleAgent,
		Content:   reply,
		CreatedAt: r.now(),
	}, nil
}
