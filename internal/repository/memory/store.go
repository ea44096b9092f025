// Package memory provides process-local implementations of the storage interfaces.
// It backs the "memory" storage driver and the concurrency tests of the request service.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"explorewithme/internal/domain"
)

type pairKey struct {
	eventID     int64
	requesterID int64
}

// Store holds users, events and participation requests behind one mutex. Every
// repository method runs under it, so an admission decision is atomic.
type Store struct {
	mu            sync.RWMutex
	users         map[int64]domain.User
	events        map[int64]domain.Event
	requests      map[int64]domain.ParticipationRequest
	pairs         map[pairKey]int64
	nextUserID    int64
	nextEventID   int64
	nextRequestID int64
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		users:    make(map[int64]domain.User),
		events:   make(map[int64]domain.Event),
		requests: make(map[int64]domain.ParticipationRequest),
		pairs:    make(map[pairKey]int64),
	}
}

// Users returns a UserRepository backed by s.
func (s *Store) Users() domain.UserRepository { return &userRepository{s: s} }

// Events returns an EventRepository backed by s.
func (s *Store) Events() domain.EventRepository { return &eventRepository{s: s} }

// Requests returns a RequestRepository backed by s.
func (s *Store) Requests() domain.RequestRepository { return &requestRepository{s: s} }

type userRepository struct{ s *Store }

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return fmt.Errorf("%w: email already in use", domain.ErrInvalidInput)
		}
	}
	r.s.nextUserID++
	u.ID = r.s.nextUserID
	r.s.users[u.ID] = *u
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

type eventRepository struct{ s *Store }

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[e.InitiatorID]; !ok {
		return fmt.Errorf("%w: unknown initiator %d", domain.ErrInvalidInput, e.InitiatorID)
	}
	r.s.nextEventID++
	e.ID = r.s.nextEventID
	r.s.events[e.ID] = *e
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &e, nil
}

func (r *eventRepository) ListByIDs(ctx context.Context, ids []int64) ([]*domain.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	events := make([]*domain.Event, 0, len(ids))
	for _, id := range ids {
		if e, ok := r.s.events[id]; ok {
			events = append(events, &e)
		}
	}
	slices.SortFunc(events, func(a, b *domain.Event) int { return cmp.Compare(a.ID, b.ID) })
	return slices.CompactFunc(events, func(a, b *domain.Event) bool { return a.ID == b.ID }), nil
}

func (r *eventRepository) UpdateState(ctx context.Context, id int64, state domain.EventState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return domain.ErrNotFound
	}
	e.State = state
	r.s.events[id] = e
	return nil
}

type requestRepository struct{ s *Store }

func (r *requestRepository) ExistsByRequesterAndEvent(ctx context.Context, requesterID, eventID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.pairs[pairKey{eventID: eventID, requesterID: requesterID}]
	return ok, nil
}

func (r *requestRepository) Admit(ctx context.Context, req *domain.ParticipationRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.events[req.EventID]
	if !ok {
		return domain.ErrNotFound
	}
	key := pairKey{eventID: req.EventID, requesterID: req.RequesterID}
	if _, ok := r.s.pairs[key]; ok {
		return domain.ErrDuplicateRequest
	}
	if !e.IsPublished() {
		return domain.ErrEventNotPublished
	}
	if !e.Unlimited() && r.s.confirmedLocked(req.EventID) >= int64(e.ParticipantLimit) {
		return domain.ErrCapacityExceeded
	}

	r.s.nextRequestID++
	req.ID = r.s.nextRequestID
	r.s.requests[req.ID] = *req
	r.s.pairs[key] = req.ID
	return nil
}

func (r *requestRepository) GetByID(ctx context.Context, id int64) (*domain.ParticipationRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	req, ok := r.s.requests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &req, nil
}

func (r *requestRepository) Cancel(ctx context.Context, id, requesterID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.requests[id]
	if !ok || req.RequesterID != requesterID || !req.Cancelable() {
		return false, nil
	}
	req.Status = domain.RequestStatusCanceled
	r.s.requests[id] = req
	return true, nil
}

func (r *requestRepository) ListByRequesterID(ctx context.Context, requesterID int64) ([]*domain.ParticipationRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	reqs := make([]*domain.ParticipationRequest, 0)
	for _, req := range r.s.requests {
		if req.RequesterID == requesterID {
			reqs = append(reqs, &req)
		}
	}
	slices.SortFunc(reqs, func(a, b *domain.ParticipationRequest) int {
		if c := a.Created.Compare(b.Created); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return reqs, nil
}

func (r *requestRepository) ConfirmedCount(ctx context.Context, eventID int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.confirmedLocked(eventID), nil
}

func (r *requestRepository) ConfirmedCounts(ctx context.Context, eventIDs []int64) (map[int64]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	counts := make(map[int64]int64)
	for _, id := range eventIDs {
		if n := r.s.confirmedLocked(id); n > 0 {
			counts[id] = n
		}
	}
	return counts, nil
}

// confirmedLocked counts CONFIRMED requests for eventID. s.mu must be held.
func (s *Store) confirmedLocked(eventID int64) int64 {
	var n int64
	for _, req := range s.requests {
		if req.EventID == eventID && req.Status == domain.RequestStatusConfirmed {
			n++
		}
	}
	return n
}
