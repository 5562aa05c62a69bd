package events

import (
	"time"

	"github.com/spec-kit/credit-case-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCaseSubmitted     EventType = "case_submitted"
	EventCaseStatusChanged EventType = "case_status_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	Type      EventType   `json:"type"`
	CaseID    string      `json:"case_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// CaseSubmittedPayload payload.
type CaseSubmittedPayload struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// CaseStatusChangedPayload payload.
type CaseStatusChangedPayload struct {
	OldStage domain.Stage `json:"old_stage"`
	NewStage domain.Stage `json:"new_stage"`
	Notes    string       `json:"notes,omitempty"`
}
