package audit

import (
	"context"
	"time"
)

// Event is emitted from domain logic to capture roster changes. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Activity  string    `json:"activity"`
	Email     string    `json:"email"`
	// RequestID is the correlation ID from the HTTP request context.
	RequestID string `json:"request_id,omitempty"`
}

type AuditEvent string

const (
	EventStudentSignedUp     AuditEvent = "student_signed_up"
	EventStudentUnregistered AuditEvent = "student_unregistered"
)

// Sink receives emitted events. Kafka and other external sinks implement
// only this.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Store is a queryable sink, used as the publisher's primary destination.
type Store interface {
	Sink
	ListByActivity(ctx context.Context, activity string) ([]Event, error)
}
