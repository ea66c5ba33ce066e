package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/rocketscienceinc/gridmatch-backend/internal/entity"
)

type rooms interface {
	RoomSnapshot(key string) (entity.RoomSnapshot, error)
}

type directory interface {
	RegisterPushTarget(ctx context.Context, userID, token string) error
	Ping(ctx context.Context) error
}

type Server struct {
	logger         *slog.Logger
	rooms          rooms
	directory      directory
	allowedOrigins []string

	httpServer *http.Server
}

func New(logger *slog.Logger, rooms rooms, directory directory, allowedOrigins []string) *Server {
	return &Server{
		logger:         logger.With("component", "rest-server"),
		rooms:          rooms,
		directory:      directory,
		allowedOrigins: allowedOrigins,
	}
}

func (that *Server) Router() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   that.allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           60 * 15,
	}))

	router.Get("/ping", that.handlePing)
	router.Get("/health", that.handleHealth)
	router.Get("/rooms/{roomID}", that.handleRoom)
	router.Put("/users/{userID}/push-target", that.handlePushTarget)

	return router
}

func (that *Server) Start(port string) error {
	that.httpServer = &http.Server{
		Addr:         ":" + port,
		Handler:      that.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	that.logger.Info("http server started", "port", port)

	if err := that.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) Shutdown(ctx context.Context) error {
	if that.httpServer == nil {
		return nil
	}

	if err := that.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}
