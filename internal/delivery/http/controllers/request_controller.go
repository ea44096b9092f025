package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"explorewithme/internal/delivery/http/helpers"
	"explorewithme/internal/delivery/http/middleware"
	"explorewithme/internal/domain"
)

// DateTimeLayout is the wire format of request timestamps.
const DateTimeLayout = "2006-01-02 15:04:05"

// ParticipationRequestDTO is the wire representation of a participation request.
type ParticipationRequestDTO struct {
	ID        int64  `json:"id"`
	Event     int64  `json:"event"`
	Requester int64  `json:"requester"`
	Status    string `json:"status"`
	Created   string `json:"created"`
}

// NewParticipationRequestDTO maps a domain request to its wire form.
func NewParticipationRequestDTO(r *domain.ParticipationRequest) ParticipationRequestDTO {
	return ParticipationRequestDTO{
		ID:        r.ID,
		Event:     r.EventID,
		Requester: r.RequesterID,
		Status:    string(r.Status),
		Created:   r.Created.Format(DateTimeLayout),
	}
}

// RequestSuccessResponse is the success response envelope for a single request.
type RequestSuccessResponse struct {
	Data  ParticipationRequestDTO `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// RequestListSuccessResponse is the success response envelope for GET /users/{userID}/requests (200).
type RequestListSuccessResponse struct {
	Data  []ParticipationRequestDTO `json:"data"`
	Error *helpers.APIError         `json:"error"`
}

// ConfirmedCountsSuccessResponse is the success response envelope for GET /events/confirmed-requests (200).
// Keys are event ids.
type ConfirmedCountsSuccessResponse struct {
	Data  map[string]int64  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// RequestController handles participation request endpoints.
type RequestController struct {
	Logger  *slog.Logger
	Service domain.RequestService
	Events  domain.EventRepository
}

// NewRequestController creates a RequestController with the given logger, service and event directory.
func NewRequestController(logger *slog.Logger, svc domain.RequestService, events domain.EventRepository) *RequestController {
	return &RequestController{
		Logger:  logger,
		Service: svc,
		Events:  events,
	}
}

// CreateRequest godoc
// @Summary Request participation in an event
// @Description Creates a participation request. It is CONFIRMED when the event does not moderate requests or has no participant limit, PENDING otherwise.
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param userID path int true "Requester ID"
// @Param eventId query int true "Event ID"
// @Success 201 {object} controllers.RequestSuccessResponse "data contains the created request"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: duplicate_request, self_participation_forbidden, event_not_published or capacity_exceeded"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/requests [post]
func (c *RequestController) CreateRequest(w http.ResponseWriter, r *http.Request) {
	userID, err := helpers.PathID(r, "userID")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	eventID, err := helpers.QueryID(r, "eventId")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	req, err := c.Service.CreateRequest(r.Context(), userID, eventID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, NewParticipationRequestDTO(req))
}

// GetOwnRequests godoc
// @Summary List a user's participation requests
// @Description Returns every request made by the user, oldest first.
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param userID path int true "Requester ID"
// @Success 200 {object} controllers.RequestListSuccessResponse "data contains the requests"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/requests [get]
func (c *RequestController) GetOwnRequests(w http.ResponseWriter, r *http.Request) {
	userID, err := helpers.PathID(r, "userID")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	reqs, err := c.Service.GetOwnRequests(r.Context(), userID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	out := make([]ParticipationRequestDTO, 0, len(reqs))
	for _, req := range reqs {
		out = append(out, NewParticipationRequestDTO(req))
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, out)
}

// CancelRequest godoc
// @Summary Cancel own participation request
// @Description Moves a PENDING or CONFIRMED request to CANCELED. Requests of other users are returned unchanged.
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param userID path int true "Requester ID"
// @Param requestID path int true "Request ID"
// @Success 200 {object} controllers.RequestSuccessResponse "data contains the request"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/requests/{requestID}/cancel [patch]
func (c *RequestController) CancelRequest(w http.ResponseWriter, r *http.Request) {
	userID, err := helpers.PathID(r, "userID")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	requestID, err := helpers.PathID(r, "requestID")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	req, err := c.Service.CancelRequest(r.Context(), userID, requestID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, NewParticipationRequestDTO(req))
}

// GetConfirmedRequests godoc
// @Summary Confirmed request counts
// @Description Returns the number of CONFIRMED requests per event. Unknown ids and events without confirmed requests are omitted.
// @Tags events
// @Produce json
// @Param ids query string true "Comma separated event IDs"
// @Success 200 {object} controllers.ConfirmedCountsSuccessResponse "data maps event id to confirmed count"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/confirmed-requests [get]
func (c *RequestController) GetConfirmedRequests(w http.ResponseWriter, r *http.Request) {
	ids, err := helpers.ParseIDList(r, "ids")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	if len(ids) == 0 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "ids is required")
		return
	}
	events, err := c.Events.ListByIDs(r.Context(), ids)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	counts, err := c.Service.GetConfirmedRequests(r.Context(), events)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, counts)
}

// writeError maps service errors to the API error envelope. Unknown errors are logged
// and reported as internal errors without their message.
func (c *RequestController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := http.StatusInternalServerError, helpers.ErrCodeInternalError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status, code = http.StatusNotFound, helpers.ErrCodeNotFound
	case errors.Is(err, domain.ErrDuplicateRequest):
		status, code = http.StatusConflict, helpers.ErrCodeDuplicateRequest
	case errors.Is(err, domain.ErrSelfParticipationForbidden):
		status, code = http.StatusConflict, helpers.ErrCodeSelfParticipationForbidden
	case errors.Is(err, domain.ErrEventNotPublished):
		status, code = http.StatusConflict, helpers.ErrCodeEventNotPublished
	case errors.Is(err, domain.ErrCapacityExceeded):
		status, code = http.StatusConflict, helpers.ErrCodeCapacityExceeded
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = http.StatusBadRequest, helpers.ErrCodeBadRequest
	}
	if status == http.StatusInternalServerError {
		c.Logger.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path,
			"method", r.Method,
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"err", err,
		)
		helpers.WriteJSONError(w, status, code, "internal error")
		return
	}
	helpers.WriteJSONError(w, status, code, err.Error())
}
