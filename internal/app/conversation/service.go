package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nimbuslabs/nimbus-agent/internal/app/routing"
	"github.com/nimbuslabs/nimbus-agent/internal/domain"
	"github.com/nimbuslabs/nimbus-agent/internal/observability"
)

// DefaultMaxInvocations is the hard cap on selector invocations per
// conversation when the config does not override it.
const DefaultMaxInvocations = 20

// Service runs the routing loop: append the user's message, let the
// policy pick the next participant, invoke it, append its reply, and
// repeat until the policy terminates the exchange. One loop instance
// runs per session; the store serializes concurrent appends.
type Service struct {
	store    domain.ConversationStore
	runtime  domain.ParticipantRuntime
	registry *routing.Registry
	policy   routing.Policy

	maxInvocations int
	now            func() time.Time
}

func NewService(
	store domain.ConversationStore,
	runtime domain.ParticipantRuntime,
	registry *routing.Registry,
	policy routing.Policy,
	maxInvocations int,
) *Service {
	if maxInvocations <= 0 {
		maxInvocations = DefaultMaxInvocations
	}

	return &Service{
		store:          store,
		runtime:        runtime,
		registry:       registry,
		policy:         policy,
		maxInvocations: maxInvocations,
		now:            time.Now,
	}
}

type StartConversationInput struct {
	// SessionID is caller-supplied; when empty one is generated.
	SessionID domain.SessionID
}

type StartConversationOutput struct {
	Conversation *domain.Conversation
}

func (s *Service) StartConversation(ctx context.Context, in StartConversationInput) (*StartConversationOutput, error) {
	id := in.SessionID
	if id == "" {
		id = domain.SessionID("conv-" + uuid.NewString())
	}

	log := observability.LoggerFromContext(ctx).With("session_id", id)
	log.Info("starting conversation")

	now := s.now()
	conv := &domain.Conversation{
		SessionID: id,
		Status:    domain.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateConversation(ctx, conv); err != nil {
		log.Error("failed to create conversation", "error", err)
		return nil, err
	}

	return &StartConversationOutput{Conversation: conv}, nil
}

type SendMessageInput struct {
	SessionID domain.SessionID
	Text      string
}

type SendMessageOutput struct {
	// Result is the coordinator's final text (or the fixed fallback).
	Result string

	// Reason is the termination reason, for observability only.
	Reason string

	// Messages are the entries this turn appended, user message included.
	Messages []*domain.Message
}

// SendMessage delivers one end-user utterance into the routing loop and
// runs it to termination.
func (s *Service) SendMessage(ctx context.Context, in SendMessageInput) (*SendMessageOutput, error) {
	conv, err := s.store.GetConversation(ctx, in.SessionID)
	if err != nil {
		return nil, err
	}
	if conv.Status != domain.StatusActive {
		return nil, domain.ErrConversationClosed
	}

	log := observability.LoggerFromContext(ctx).With("session_id", conv.SessionID)
	log.Info("user turn received")

	start := s.now()
	defer func() {
		observability.TurnDuration.Observe(time.Since(start).Seconds())
	}()

	userMsg := &domain.Message{
		ID:        domain.MessageID(uuid.NewString()),
		SessionID: conv.SessionID,
		Author:    domain.EndUserAuthor,
		Role:      domain.RoleUser,
		Content:   in.Text,
		CreatedAt: s.now(),
	}
	if err := s.store.AppendMessage(ctx, userMsg); err != nil {
		log.Error("failed to append user message", "error", err)
		return nil, err
	}

	history := append(append([]*domain.Message{}, conv.Messages...), userMsg)
	turn := []*domain.Message{userMsg}

	for {
		handle, reason := s.policy.SelectNext(history, s.registry)
		if handle == routing.HandleNotFound {
			log.Error("selector cannot route", "reason", reason)
			s.fail(ctx, conv.SessionID, log)
			return nil, fmt.Errorf("routing misconfigured: %s", reason)
		}
		log.Info("participant selected", "reason", reason)

		count, err := s.store.IncrementInvocationCount(ctx, conv.SessionID)
		if err != nil {
			log.Error("failed to bump invocation count", "error", err)
			return nil, err
		}

		reply, err := s.runtime.Invoke(ctx, handle, &domain.Conversation{
			SessionID:       conv.SessionID,
			Messages:        history,
			InvocationCount: count,
			Status:          domain.StatusActive,
		})
		if err != nil {
			// The failed invocation already counted toward the cap;
			// record a system note and give up on the conversation.
			log.Error("participant invocation failed", "error", err)
			note := &domain.Message{
				ID:        domain.MessageID(uuid.NewString()),
				SessionID: conv.SessionID,
				Author:    "system",
				Role:      domain.RoleSystem,
				Content:   "participant invocation failed",
				CreatedAt: s.now(),
			}
			if appendErr := s.store.AppendMessage(ctx, note); appendErr != nil {
				log.Error("failed to append failure note", "error", appendErr)
			}
			s.fail(ctx, conv.SessionID, log)
			return nil, fmt.Errorf("invoking participant: %w", err)
		}

		observability.SelectorDecisions.WithLabelValues(reply.Author).Inc()

		if err := s.store.AppendMessage(ctx, reply); err != nil {
			log.Error("failed to append participant reply", "error", err)
			return nil, err
		}
		history = append(history, reply)
		turn = append(turn, reply)

		done, why := s.policy.ShouldTerminate(history, count, s.maxInvocations)
		if !done {
			continue
		}

		log.Info("conversation terminated", "reason", why, "invocations", count)
		observability.Terminations.WithLabelValues(why).Inc()

		if err := s.store.SetStatus(ctx, conv.SessionID, domain.StatusCompleted); err != nil {
			log.Error("failed to mark conversation completed", "error", err)
			return nil, err
		}

		return &SendMessageOutput{
			Result:   s.policy.ExtractResult(history),
			Reason:   why,
			Messages: turn,
		}, nil
	}
}

// GetConversation returns a read-only snapshot for the API surface.
func (s *Service) GetConversation(ctx context.Context, id domain.SessionID) (*domain.Conversation, error) {
	return s.store.GetConversation(ctx, id)
}

func (s *Service) fail(ctx context.Context, id domain.SessionID, log *slog.Logger) {
	observability.ConversationFailures.Inc()
	if err := s.store.SetStatus(ctx, id, domain.StatusFailed); err != nil {
		log.Error("failed to mark conversation failed", "error", err)
	}
}
