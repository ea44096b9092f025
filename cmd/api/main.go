// Command api serves the participation request API.
//
// @title Explore With Me participation API
// @version 1.0
// @description Participation requests for capacity-limited events.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"explorewithme/config"
	_ "explorewithme/docs"
	"explorewithme/internal/adapters/auth"
	deliveryhttp "explorewithme/internal/delivery/http"
	"explorewithme/internal/delivery/http/controllers"
	"explorewithme/internal/domain"
	"explorewithme/internal/repository/memory"
	"explorewithme/internal/repository/postgres"
	"explorewithme/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Environment, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

type storage struct {
	users    domain.UserRepository
	events   domain.EventRepository
	requests domain.RequestRepository
	check    func(ctx context.Context) error
	close    func() error
}

func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*storage, error) {
	if cfg.StorageDriver == config.StorageMemory {
		store := memory.NewStore()
		if err := seedDemo(ctx, store); err != nil {
			return nil, err
		}
		logger.Warn("using in-memory storage; data is lost on restart")
		return &storage{
			users:    store.Users(),
			events:   store.Events(),
			requests: store.Requests(),
			close:    func() error { return nil },
		}, nil
	}

	db, err := postgres.Open(ctx, cfg.DBUrl, cfg.DBMaxOpenConns)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Info("database ready", "max_open_conns", cfg.DBMaxOpenConns)
	return &storage{
		users:    postgres.NewUserRepository(db),
		events:   postgres.NewEventRepository(db),
		requests: postgres.NewRequestRepository(db),
		check:    db.PingContext,
		close:    db.Close,
	}, nil
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.close(); err != nil {
			logger.Error("close storage", "err", err)
		}
	}()

	requestService := services.NewRequestService(store.requests, store.events, store.users, logger)

	var verifier domain.TokenVerifier
	if cfg.AuthEnabled() {
		verifier = auth.NewJWT(cfg.JWTSecret)
	} else {
		logger.Warn("JWT_SECRET not set; user routes are unauthenticated")
	}

	mux := deliveryhttp.NewRouter(deliveryhttp.RouterConfig{
		Logger:            logger,
		RequestController: controllers.NewRequestController(logger, requestService, store.events),
		HealthController:  &controllers.HealthController{Logger: logger, Check: store.check},
		Verifier:          verifier,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           deliveryhttp.NewHandler(mux, logger, cfg.CORSAllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// seedDemo gives the in-memory driver an organizer, a guest and a published event with
// room for two participants so the API can be tried without a database.
func seedDemo(ctx context.Context, store *memory.Store) error {
	now := time.Now()
	organizer := domain.NewUser("Organizer", "organizer@example.com", now)
	guest := domain.NewUser("Guest", "guest@example.com", now)
	for _, u := range []*domain.User{organizer, guest} {
		if err := store.Users().Create(ctx, u); err != nil {
			return err
		}
	}
	event := domain.NewEvent("Demo meetup", organizer.ID, 2, false, now)
	if err := store.Events().Create(ctx, event); err != nil {
		return err
	}
	return store.Events().UpdateState(ctx, event.ID, domain.EventStatePublished)
}
