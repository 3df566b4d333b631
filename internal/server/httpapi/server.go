// Package httpapi exposes the user service over a small JSON REST API.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/todoapp/userapi/internal/logging"
	"github.com/todoapp/userapi/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	address string
	logger  logging.Logger
	users   *services.UserService
}

func NewServer(address string, logger logging.Logger, users *services.UserService) *Server {
	return &Server{
		address: address,
		logger:  logger.With("module", "http_server"),
		users:   users,
	}
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/ping", s.handlePing)
	mux.HandleFunc("GET /api/user", s.handleList)
	mux.HandleFunc("GET /api/user/claims", s.handleClaims)
	mux.HandleFunc("GET /api/user/hasExpired", s.handleHasExpired)
	mux.HandleFunc("POST /api/user/register", s.handleRegister)
	mux.HandleFunc("POST /api/user/login", s.handleLogin)
	mux.HandleFunc("POST /api/user/refresh", s.handleRefresh)
	mux.HandleFunc("PUT /api/user", s.handleUpdate)
	mux.HandleFunc("DELETE /api/user/{id}", s.handleDelete)

	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
