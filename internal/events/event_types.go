package events

import (
	"time"

	"github.com/spec-kit/project-hub/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered         EventType = "user_registered"
	EventInvitationSent         EventType = "invitation_sent"
	EventInvitationAccepted     EventType = "invitation_accepted"
	EventPasswordResetRequested EventType = "password_reset_requested"
	EventPasswordResetCompleted EventType = "password_reset_completed"
)

// Event represents an auth lifecycle event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// InvitationSentPayload payload.
type InvitationSentPayload struct {
	Email     string `json:"email"`
	ProjectID string `json:"project_id"`
}

// InvitationAcceptedPayload payload.
type InvitationAcceptedPayload struct {
	ProjectID string `json:"project_id"`
	UserID    string `json:"user_id"`
}

// PasswordResetRequestedPayload payload.
type PasswordResetRequestedPayload struct {
	UserID string `json:"user_id"`
}

// PasswordResetCompletedPayload payload.
type PasswordResetCompletedPayload struct {
	UserID string `json:"user_id"`
}
