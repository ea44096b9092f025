package domain

import (
	"context"
	"time"
)

// EventState is the publication state of an event.
type EventState string

const (
	EventStatePending   EventState = "PENDING"
	EventStatePublished EventState = "PUBLISHED"
	EventStateCanceled  EventState = "CANCELED"
)

// Event is the admission-relevant view of an event. It is owned by the event directory
// and read-only to the request service.
// swagger:model Event
type Event struct {
	ID                int64      `json:"id"`
	Title             string     `json:"title"`
	Annotation        string     `json:"annotation"`
	InitiatorID       int64      `json:"initiator_id"`
	ParticipantLimit  int        `json:"participant_limit"`
	RequestModeration bool       `json:"request_moderation"`
	State             EventState `json:"state"`
	CreatedAt         time.Time  `json:"created_at"`
}

// NewEvent returns a new Event in the PENDING state. ID is set by the repository on create.
func NewEvent(title string, initiatorID int64, participantLimit int, requestModeration bool, createdAt time.Time) *Event {
	return &Event{
		Title:             title,
		InitiatorID:       initiatorID,
		ParticipantLimit:  participantLimit,
		RequestModeration: requestModeration,
		State:             EventStatePending,
		CreatedAt:         createdAt,
	}
}

// IsPublished reports whether the event accepts participation requests.
func (e *Event) IsPublished() bool {
	return e.State == EventStatePublished
}

// Unlimited reports whether the event has no participant limit.
func (e *Event) Unlimited() bool {
	return e.ParticipantLimit == 0
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id int64) (*Event, error)
	// ListByIDs returns the events that exist among ids; missing ids are skipped.
	ListByIDs(ctx context.Context, ids []int64) ([]*Event, error)
	UpdateState(ctx context.Context, id int64, state EventState) error
}
