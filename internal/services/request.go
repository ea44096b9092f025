package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"explorewithme/internal/domain"
)

type requestService struct {
	requestRepo domain.RequestRepository
	eventRepo   domain.EventRepository
	userRepo    domain.UserRepository
	logger      *slog.Logger
	now         func() time.Time
}

// NewRequestService creates the admission-control RequestService.
func NewRequestService(
	requestRepo domain.RequestRepository,
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	logger *slog.Logger,
) domain.RequestService {
	return &requestService{
		requestRepo: requestRepo,
		eventRepo:   eventRepo,
		userRepo:    userRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateRequest evaluates the admission rules in order (duplicate, own event, published,
// capacity) and stores the request. The ledger's Admit repeats the published check and
// runs the capacity check atomically with the insert.
func (s *requestService) CreateRequest(ctx context.Context, requesterID, eventID int64) (*domain.ParticipationRequest, error) {
	requester, err := s.findUser(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	event, err := s.findEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	exists, err := s.requestRepo.ExistsByRequesterAndEvent(ctx, requesterID, eventID)
	if err != nil {
		return nil, fmt.Errorf("check existing request: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("user %d, event %d: %w", requesterID, eventID, domain.ErrDuplicateRequest)
	}
	if event.InitiatorID == requesterID {
		return nil, fmt.Errorf("event %d: %w", eventID, domain.ErrSelfParticipationForbidden)
	}
	if !event.IsPublished() {
		return nil, fmt.Errorf("event %d: %w", eventID, domain.ErrEventNotPublished)
	}

	req := domain.NewParticipationRequest(event.ID, requester.ID, domain.InitialStatus(event), s.now())
	if err := s.requestRepo.Admit(ctx, req); err != nil {
		switch {
		case errors.Is(err, domain.ErrCapacityExceeded):
			return nil, fmt.Errorf("event %d limit %d: %w", eventID, event.ParticipantLimit, err)
		case errors.Is(err, domain.ErrDuplicateRequest):
			return nil, fmt.Errorf("user %d, event %d: %w", requesterID, eventID, err)
		case errors.Is(err, domain.ErrEventNotPublished):
			return nil, fmt.Errorf("event %d: %w", eventID, err)
		case errors.Is(err, domain.ErrNotFound):
			return nil, fmt.Errorf("event %d: %w", eventID, err)
		}
		return nil, fmt.Errorf("admit request: %w", err)
	}

	s.logger.InfoContext(ctx, "participation request created",
		"request_id", req.ID,
		"event_id", req.EventID,
		"requester_id", req.RequesterID,
		"status", req.Status,
	)
	return req, nil
}

// CancelRequest cancels the request when requesterID owns it. A request owned by someone
// else is returned unchanged. Canceling frees a confirmed slot but never promotes a
// pending request.
func (s *requestService) CancelRequest(ctx context.Context, requesterID, requestID int64) (*domain.ParticipationRequest, error) {
	if _, err := s.findUser(ctx, requesterID); err != nil {
		return nil, err
	}
	req, err := s.findRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	changed, err := s.requestRepo.Cancel(ctx, requestID, requesterID)
	if err != nil {
		return nil, fmt.Errorf("cancel request: %w", err)
	}
	if !changed {
		s.logger.InfoContext(ctx, "participation request left unchanged",
			"request_id", req.ID,
			"requester_id", requesterID,
			"owner_id", req.RequesterID,
			"status", req.Status,
		)
		return req, nil
	}

	req.Status = domain.RequestStatusCanceled
	s.logger.InfoContext(ctx, "participation request canceled",
		"request_id", req.ID,
		"event_id", req.EventID,
		"requester_id", requesterID,
	)
	return req, nil
}

func (s *requestService) GetOwnRequests(ctx context.Context, requesterID int64) ([]*domain.ParticipationRequest, error) {
	if _, err := s.findUser(ctx, requesterID); err != nil {
		return nil, err
	}
	reqs, err := s.requestRepo.ListByRequesterID(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	if reqs == nil {
		reqs = []*domain.ParticipationRequest{}
	}
	s.logger.DebugContext(ctx, "participation requests listed", "requester_id", requesterID, "count", len(reqs))
	return reqs, nil
}

// GetConfirmedRequests returns the confirmed count per event. Events without confirmed
// requests are left out of the map.
func (s *requestService) GetConfirmedRequests(ctx context.Context, events []*domain.Event) (map[int64]int64, error) {
	if len(events) == 0 {
		return map[int64]int64{}, nil
	}
	ids := make([]int64, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	counts, err := s.requestRepo.ConfirmedCounts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count confirmed requests: %w", err)
	}
	if counts == nil {
		counts = map[int64]int64{}
	}
	return counts, nil
}

func (s *requestService) findUser(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *requestService) findEvent(ctx context.Context, id int64) (*domain.Event, error) {
	e, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("event %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

func (s *requestService) findRequest(ctx context.Context, id int64) (*domain.ParticipationRequest, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("request %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get request: %w", err)
	}
	return req, nil
}
