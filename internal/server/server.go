// Package server serves rendered question plots over HTTP.
//
// Routes:
//
//	GET /healthz                              liveness and version
//	GET /questions                            question summaries
//	GET /questions/{id}                       one question with its rating
//	GET /questions/{id}/{target}.{format}     one rendered target
//	GET /report                               HTML page of every question
//
// Artifacts go through a [pipeline.Runner], so the runner's cache serves
// repeat requests.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/peerplot/pkg/pipeline"
	"github.com/matzehuels/peerplot/pkg/source"
)

// Server handles HTTP requests for one question source.
type Server struct {
	source source.Source
	runner *pipeline.Runner
	opts   pipeline.Options
	logger *log.Logger
	router chi.Router
}

// New returns a server reading questions from src and rendering them with
// runner. opts supplies the frame sizes and PNG scale; its Formats are
// ignored since every request names its own format.
func New(src source.Source, runner *pipeline.Runner, opts pipeline.Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		source: src,
		runner: runner,
		opts:   opts,
		logger: logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(serverHeader)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/questions", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Get("/{id}", s.handleQuestion)
		r.Get("/{id}/{target}.{format}", s.handleArtifact)
	})
	r.Get("/report", s.handleReport)
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully within shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readTimeout,
		ReadTimeout:       readTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
