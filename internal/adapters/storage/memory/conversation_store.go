package memory

import (
	"context"
	"sync"

	"github.com/nimbuslabs/nimbus-agent/internal/domain"
)

// ConversationStore keeps conversations in process memory. The single
// mutex serializes appends per process, which also satisfies the
// per-session serialization the routing loop relies on.
type ConversationStore struct {
	mu            sync.RWMutex
	conversations map[domain.SessionID]*domain.Conversation
}

func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		conversations: make(map[domain.SessionID]*domain.Conversation),
	}
}

func (s *ConversationStore) CreateConversation(ctx context.Context, conv *domain.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.conversations[conv.SessionID]; exists {
		return domain.ErrConversationExists
	}

	stored := *conv
	stored.Messages = append([]*domain.Message{}, conv.Messages...)
	s.conversations[conv.SessionID] = &stored
	return nil
}

// GetConversation returns a snapshot: the routing logic gets a copy of
// the log, never the live slice.
func (s *ConversationStore) GetConversation(ctx context.Context, id domain.SessionID) (*domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil, domain.ErrConversationNotFound
	}

	snapshot := *conv
	snapshot.Messages = append([]*domain.Message{}, conv.Messages...)
	return &snapshot, nil
}

func (s *ConversationStore) AppendMessage(ctx context.Context, msg *domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[msg.SessionID]
	if !ok {
		return domain.ErrConversationNotFound
	}
	if conv.Status != domain.StatusActive {
		return domain.ErrConversationClosed
	}

	conv.Messages = append(conv.Messages, msg)
	conv.UpdatedAt = msg.CreatedAt
	return nil
}

func (s *ConversationStore) IncrementInvocationCount(ctx context.Context, id domain.SessionID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		return 0, domain.ErrConversationNotFound
	}

	conv.InvocationCount++
	return conv.InvocationCount, nil
}

func (s *ConversationStore) SetStatus(ctx context.Context, id domain.SessionID, status domain.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		return domain.ErrConversationNotFound
	}
	if conv.Status != domain.StatusActive {
		return domain.ErrConversationClosed
	}

	conv.Status = status
	return nil
}
