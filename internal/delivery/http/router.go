package http

import (
	"log/slog"
	"net/http"

	"explorewithme/internal/delivery/http/controllers"
	"explorewithme/internal/delivery/http/middleware"
	"explorewithme/internal/domain"

	httpSwagger "github.com/swaggo/http-swagger"
)

// RouterConfig holds the controllers and optional token verifier used by NewRouter.
// When Verifier is nil the /users routes are served without authentication.
type RouterConfig struct {
	Logger            *slog.Logger
	RequestController *controllers.RequestController
	HealthController  *controllers.HealthController
	Verifier          domain.TokenVerifier
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(cfg RouterConfig) *http.ServeMux {
	mux := http.NewServeMux()

	private := func(next http.HandlerFunc) http.HandlerFunc { return next }
	if cfg.Verifier != nil {
		requireAuth := middleware.RequireAuth(cfg.Verifier, cfg.Logger)
		private = func(next http.HandlerFunc) http.HandlerFunc {
			return requireAuth(middleware.RequireSelf(next))
		}
	}

	// Participation requests
	rc := cfg.RequestController
	mux.HandleFunc("POST /users/{userID}/requests", private(rc.CreateRequest))
	mux.HandleFunc("GET /users/{userID}/requests", private(rc.GetOwnRequests))
	mux.HandleFunc("PATCH /users/{userID}/requests/{requestID}/cancel", private(rc.CancelRequest))
	mux.HandleFunc("GET /events/confirmed-requests", rc.GetConfirmedRequests)

	mux.HandleFunc("GET /health", cfg.HealthController.Health)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// NewHandler wraps mux with the request id, access log and CORS middleware.
func NewHandler(mux http.Handler, logger *slog.Logger, allowedOrigins []string) http.Handler {
	return middleware.RequestID(middleware.LoggingMiddleware(logger, middleware.CORS(allowedOrigins, mux)))
}
