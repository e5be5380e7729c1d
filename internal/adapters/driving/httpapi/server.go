package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/evidenzia-labs/evidenzia-cli/internal/core/ports/driving"
	"github.com/evidenzia-labs/evidenzia-cli/internal/logger"
)

// DefaultAddr is the default listen address.
const DefaultAddr = "127.0.0.1:8000"

// maxUploadBytes bounds a single multipart upload request.
const maxUploadBytes = 64 << 20

// Config holds server configuration.
type Config struct {
	// Addr is the listen address (default: 127.0.0.1:8000).
	Addr string
}

// Server serves the extraction API.
type Server struct {
	parse driving.ParseService
	state driving.StateService

	httpServer *http.Server
}

// NewServer creates the API server with its routes and middleware mounted.
func NewServer(cfg Config, parse driving.ParseService, state driving.StateService) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}

	s := &Server{
		parse: parse,
		state: state,
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Route("/api", func(r chi.Router) {
		r.With(uploadLimiter).Post("/parse", s.handleParse)
		r.With(uploadLimiter).Post("/parse-multi", s.handleParseMulti)
		r.With(uploadLimiter).Post("/upload-multi", s.handleUploadMulti)
		r.Get("/docs", s.handleListDocs)
		r.Delete("/docs/{filename}", s.handleDeleteDoc)
		r.Get("/state", s.handleGetState)
		r.Post("/state", s.handlePatchState)
	})

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start listens and serves until the context is cancelled or the listener
// fails.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("API listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return s.Stop(context.Background())
	case err := <-errCh:
		return fmt.Errorf("serving: %w", err)
	}
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
