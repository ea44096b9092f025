package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"explorewithme/internal/adapters/auth"
	"explorewithme/internal/delivery/http/controllers"
	"explorewithme/internal/delivery/http/helpers"
	"explorewithme/internal/delivery/http/middleware"
	"explorewithme/internal/domain"
	"explorewithme/internal/repository/memory"
	"explorewithme/internal/services"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	handler   http.Handler
	store     *memory.Store
	organizer *domain.User
	guest     *domain.User
	event     *domain.Event
}

func newFixture(t *testing.T, verifier domain.TokenVerifier, limit int, moderation bool) *fixture {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()

	organizer := domain.NewUser("Org", "org@example.com", time.Now())
	guest := domain.NewUser("Guest", "guest@example.com", time.Now())
	require.NoError(t, store.Users().Create(ctx, organizer))
	require.NoError(t, store.Users().Create(ctx, guest))
	event := domain.NewEvent("Meetup", organizer.ID, limit, moderation, time.Now())
	require.NoError(t, store.Events().Create(ctx, event))
	require.NoError(t, store.Events().UpdateState(ctx, event.ID, domain.EventStatePublished))

	svc := services.NewRequestService(store.Requests(), store.Events(), store.Users(), logger)
	mux := NewRouter(RouterConfig{
		Logger:            logger,
		RequestController: controllers.NewRequestController(logger, svc, store.Events()),
		HealthController:  &controllers.HealthController{Logger: logger},
		Verifier:          verifier,
	})
	return &fixture{
		handler:   NewHandler(mux, logger, []string{"http://localhost:3000"}),
		store:     store,
		organizer: organizer,
		guest:     guest,
		event:     event,
	}
}

func (f *fixture) do(t *testing.T, method, target, token string) (int, helpers.APIResponse, http.Header) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	var envelope helpers.APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
	return rr.Code, envelope, rr.Header()
}

func TestRouter_RequestLifecycle(t *testing.T) {
	f := newFixture(t, nil, 1, false)

	status, envelope, header := f.do(t, http.MethodPost, fmt.Sprintf("/users/%d/requests?eventId=%d", f.guest.ID, f.event.ID), "")
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, header.Get(middleware.RequestIDHeader))
	created := envelope.Data.(map[string]any)
	require.Equal(t, "CONFIRMED", created["status"])
	requestID := int64(created["id"].(float64))

	status, envelope, _ = f.do(t, http.MethodPost, fmt.Sprintf("/users/%d/requests?eventId=%d", f.organizer.ID, f.event.ID), "")
	require.Equal(t, http.StatusConflict, status)
	require.Equal(t, helpers.ErrCodeSelfParticipationForbidden, envelope.Error.Code)

	status, envelope, _ = f.do(t, http.MethodGet, fmt.Sprintf("/events/confirmed-requests?ids=%d", f.event.ID), "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, map[string]any{fmt.Sprint(f.event.ID): float64(1)}, envelope.Data)

	status, envelope, _ = f.do(t, http.MethodPatch, fmt.Sprintf("/users/%d/requests/%d/cancel", f.guest.ID, requestID), "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "CANCELED", envelope.Data.(map[string]any)["status"])

	status, envelope, _ = f.do(t, http.MethodGet, fmt.Sprintf("/users/%d/requests", f.guest.ID), "")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, envelope.Data.([]any), 1)

	status, envelope, _ = f.do(t, http.MethodGet, fmt.Sprintf("/events/confirmed-requests?ids=%d", f.event.ID), "")
	require.Equal(t, http.StatusOK, status)
	require.Empty(t, envelope.Data)
}

func TestRouter_BearerAuth(t *testing.T) {
	jwt := auth.NewJWT("router-test-secret")
	f := newFixture(t, jwt, 0, false)

	target := fmt.Sprintf("/users/%d/requests?eventId=%d", f.guest.ID, f.event.ID)

	status, envelope, _ := f.do(t, http.MethodPost, target, "")
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, helpers.ErrCodeUnauthorized, envelope.Error.Code)

	orgToken, err := jwt.Issue(f.organizer.ID, time.Hour)
	require.NoError(t, err)
	status, envelope, _ = f.do(t, http.MethodPost, target, orgToken)
	require.Equal(t, http.StatusForbidden, status)
	require.Equal(t, helpers.ErrCodeForbidden, envelope.Error.Code)

	guestToken, err := jwt.Issue(f.guest.ID, time.Hour)
	require.NoError(t, err)
	status, _, _ = f.do(t, http.MethodPost, target, guestToken)
	require.Equal(t, http.StatusCreated, status)

	status, _, _ = f.do(t, http.MethodGet, fmt.Sprintf("/events/confirmed-requests?ids=%d", f.event.ID), "")
	require.Equal(t, http.StatusOK, status, "counts endpoint is public")
}

func TestRouter_Health(t *testing.T) {
	f := newFixture(t, nil, 0, false)
	status, envelope, _ := f.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "ok", envelope.Data.(map[string]any)["status"])
}
