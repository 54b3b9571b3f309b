// Package server assembles the HTTP surface of the local development
// backend: routing, CORS and graceful shutdown around the api handler.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/fondazionealfieri/clinicalfolders/config"
	"github.com/fondazionealfieri/clinicalfolders/server/api"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Server struct {
	address string
	handler http.Handler
}

func New(cfg *config.Config) (*Server, error) {
	store := api.NewStore()
	pipeline := api.NewPipeline(store, cfg.StepDelay)

	handler, err := api.New(store, pipeline)

	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	handler.Attach(r)

	return &Server{
		address: cfg.Address,
		handler: r,
	}, nil
}

// ListenAndServe blocks until the context is canceled, then shuts the
// server down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	server := &http.Server{
		Addr:    s.address,
		Handler: s.handler,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		server.Shutdown(shutdownCtx)
	}()

	slog.Info("server listening", "address", s.address)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
