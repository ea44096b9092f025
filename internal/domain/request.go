package domain

import (
	"context"
	"time"
)

// RequestStatus is the lifecycle status of a participation request.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusConfirmed RequestStatus = "CONFIRMED"
	RequestStatusCanceled  RequestStatus = "CANCELED"
	// RequestStatusRejected is set by organizer review, never by the request service.
	RequestStatusRejected RequestStatus = "REJECTED"
)

// ParticipationRequest is a user's request to take part in an event. EventID and
// RequesterID never change after creation and are unique as a pair.
// swagger:model ParticipationRequest
type ParticipationRequest struct {
	ID          int64         `json:"id"`
	EventID     int64         `json:"event_id"`
	RequesterID int64         `json:"requester_id"`
	Status      RequestStatus `json:"status"`
	Created     time.Time     `json:"created"`
}

// NewParticipationRequest returns a request with the given status. ID is set by the repository.
func NewParticipationRequest(eventID, requesterID int64, status RequestStatus, created time.Time) *ParticipationRequest {
	return &ParticipationRequest{
		EventID:     eventID,
		RequesterID: requesterID,
		Status:      status,
		Created:     created,
	}
}

// Cancelable reports whether the request may still move to CANCELED.
func (r *ParticipationRequest) Cancelable() bool {
	return r.Status == RequestStatusPending || r.Status == RequestStatusConfirmed
}

// InitialStatus returns the status a new request for event starts in. Requests skip
// moderation when the event does not moderate or has no participant limit.
func InitialStatus(event *Event) RequestStatus {
	if !event.RequestModeration || event.Unlimited() {
		return RequestStatusConfirmed
	}
	return RequestStatusPending
}

// RequestRepository is the request ledger.
type RequestRepository interface {
	ExistsByRequesterAndEvent(ctx context.Context, requesterID, eventID int64) (bool, error)
	// Admit stores req if the event is still published and has room. The state check, the
	// confirmed count and the insert happen atomically with respect to other Admit calls and
	// state changes for the same event. It returns ErrEventNotPublished when the event is no
	// longer PUBLISHED, ErrCapacityExceeded when the event's confirmed count has reached its
	// limit, ErrDuplicateRequest when the pair already exists and ErrNotFound when the event is gone.
	Admit(ctx context.Context, req *ParticipationRequest) error
	GetByID(ctx context.Context, id int64) (*ParticipationRequest, error)
	// Cancel sets the request to CANCELED if it belongs to requesterID and is cancelable.
	// It reports whether a row was changed.
	Cancel(ctx context.Context, id, requesterID int64) (bool, error)
	ListByRequesterID(ctx context.Context, requesterID int64) ([]*ParticipationRequest, error)
	// ConfirmedCount is for callers outside the admission path; Admit counts on its own.
	ConfirmedCount(ctx context.Context, eventID int64) (int64, error)
	// ConfirmedCounts returns confirmed counts keyed by event ID. Events without
	// confirmed requests are absent.
	ConfirmedCounts(ctx context.Context, eventIDs []int64) (map[int64]int64, error)
}

// RequestService defines the admission-control operations on participation requests.
type RequestService interface {
	CreateRequest(ctx context.Context, requesterID, eventID int64) (*ParticipationRequest, error)
	CancelRequest(ctx context.Context, requesterID, requestID int64) (*ParticipationRequest, error)
	GetOwnRequests(ctx context.Context, requesterID int64) ([]*ParticipationRequest, error)
	GetConfirmedRequests(ctx context.Context, events []*Event) (map[int64]int64, error)
}
