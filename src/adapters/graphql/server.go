package graphqladapter

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// Server serves the router built by NewRouter.
type Server struct {
	logger *slog.Logger
	http   *http.Server
}

func NewServer(logger *slog.Logger, port int, handler http.Handler) *Server {
	return &Server{
		logger: logger,
		http: &http.Server{
			Addr:              ":" + strconv.Itoa(port),
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       2 * time.Minute,
			ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		},
	}
}

// Start blocks until the server fails or Shutdown is called. A shutdown
// is not reported as an error.
func (s *Server) Start() error {
	s.logger.Info("GraphQL server listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Draining GraphQL server")
	return s.http.Shutdown(ctx)
}
