package domain

import (
	"context"
	"errors"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrConversationExists   = errors.New("conversation already exists")
	ErrConversationClosed   = errors.New("conversation is no longer active")
)

// InvocationContext gives the LLM the minimal context it needs to speak
// as one crew member.
type InvocationContext struct {
	SessionID SessionID
	Persona   string // display name of the participant speaking
	System    string // persona instructions
	History   []*Message
}

// LLMClient defines how the application talks to an LLM service.
type LLMClient interface {
	GenerateReply(ctx context.Context, inv InvocationContext) (string, error)
}

// ParticipantRuntime produces the next utterance for a selected
// participant. The caller of the routing loop appends the result; the
// runtime never writes to the store itself.
type ParticipantRuntime interface {
	Invoke(ctx context.Context, handle ParticipantHandle, conv *Conversation) (*Message, error)
}

// ConversationStore owns conversation state. Implementations serialize
// writes per session; messages are never deleted or reordered.
type ConversationStore interface {
	CreateConversation(ctx context.Context, conv *Conversation) error
	GetConversation(ctx context.Context, id SessionID) (*Conversation, error)
	AppendMessage(ctx context.Context, msg *Message) error

	// IncrementInvocationCount bumps the selector counter and returns
	// the new value.
	IncrementInvocationCount(ctx context.Context, id SessionID) (int, error)

	// SetStatus moves an active conversation to a terminal status. A
	// second transition is an error.
	SetStatus(ctx context.Context, id SessionID, status Status) error
}
