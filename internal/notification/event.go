// Package notification dispatches fire-and-forget domain events to a sink
// (Kafka when brokers are configured, the structured log otherwise).
package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Kind names a domain event.
type Kind string

const (
	KindInvitationIssued Kind = "invitation-issued"
	KindEntrySubmitted   Kind = "entry-submitted"
)

// Event is one notification. Attributes carry kind-specific details as strings.
type Event struct {
	ID           string            `json:"id"`
	Kind         Kind              `json:"kind"`
	OccurredAt   time.Time         `json:"occurred_at"`
	SupervisorID string            `json:"supervisor_id,omitempty"`
	SubjectID    string            `json:"subject_id,omitempty"`
	RequestID    string            `json:"request_id,omitempty"`
	Attributes   map[string]string `json:"attributes,omitempty"`
}

// Key groups a supervisor's events on one partition.
func (e Event) Key() string {
	if e.SupervisorID != "" {
		return e.SupervisorID
	}
	return e.SubjectID
}

// Publisher accepts events without blocking the caller.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// Sink delivers one event.
type Sink interface {
	Deliver(ctx context.Context, e Event) error
}

func stamp(e Event, now time.Time) Event {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = now
	}
	return e
}
