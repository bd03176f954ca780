package domain

// Message is one utterance in a conversation timeline (user, crew member
// or system note). Messages are immutable once appended; append order is
// the only ordering that matters to routing.
type Message struct {
	ID        MessageID
	SessionID SessionID

	// Author is the display name of the speaker: a crew member's name,
	// EndUserAuthor, or empty when the producer did not set it. Role is
	// the fallback classifier for that last case.
	Author  string
	Role    Role
	Content string

	CreatedAt Timestamp
}

// FromEndUser reports whether the message counts as an end-user turn:
// authored by the end-user sentinel, or with no author and a user role.
func (m *Message) FromEndUser() bool {
	return m.Author == EndUserAuthor || m.Author == "" || m.Role == RoleUser
}

// Conversation is an append-only log of messages plus the routing
// counters the selector loop consults. Owned by a ConversationStore;
// routing logic only ever sees snapshots.
type Conversation struct {
	SessionID SessionID
	Messages  []*Message

	// InvocationCount is the number of selector invocations so far,
	// compared against the configured hard cap.
	InvocationCount int

	Status    Status
	CreatedAt Timestamp
	UpdatedAt Timestamp
}

// LastMessage returns the most recent message, or nil for an empty log.
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}
