package events

import (
	"time"

	"github.com/spec-kit/insured-person-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventPersonRegistered       EventType = "person_registered"
	EventPersonUpdated          EventType = "person_updated"
	EventPersonDeleted          EventType = "person_deleted"
	EventPasswordChanged        EventType = "password_changed"
	EventPasswordResetRequested EventType = "password_reset_requested"
	EventPasswordResetCompleted EventType = "password_reset_completed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID           string      `json:"id"`
	Type         EventType   `json:"type"`
	PolicyNumber string      `json:"policy_number"`
	Timestamp    time.Time   `json:"timestamp"`
	Payload      interface{} `json:"payload"`
}

// PersonRegisteredPayload payload.
type PersonRegisteredPayload struct {
	UserID          string               `json:"user_id"`
	Email           string               `json:"email"`
	Role            domain.Role          `json:"role"`
	TypeOfInsurance domain.InsuranceType `json:"type_of_insurance"`
	DocumentCount   int                  `json:"document_count"`
}

// PersonUpdatedPayload payload.
type PersonUpdatedPayload struct {
	UpdatedFields []string `json:"updated_fields"`
}

// PasswordResetRequestedPayload payload.
type PasswordResetRequestedPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
