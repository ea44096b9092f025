package domain

import "errors"

// Sentinel errors shared by repositories and services. Callers match them with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Admission errors returned by RequestService.CreateRequest.
var (
	ErrDuplicateRequest           = errors.New("participation request already exists")
	ErrSelfParticipationForbidden = errors.New("event initiator cannot request participation in own event")
	ErrEventNotPublished          = errors.New("event is not published")
	ErrCapacityExceeded           = errors.New("event participant limit reached")
)
