package domain

import "time"

type SessionID string
type MessageID string

// ParticipantHandle is the opaque identifier the participant runtime uses
// to invoke a crew member.
type ParticipantHandle string

type Role string

const (
	RoleUser   Role = "user"
	RoleAgent  Role = "agent"
	RoleSystem Role = "system"
)

// EndUserAuthor is the reserved author value for the human side of a
// conversation.
const EndUserAuthor = "user"

// Status tracks the lifecycle of a conversation. Monotonic: once a
// conversation leaves StatusActive it never becomes active again.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

type Timestamp = time.Time
