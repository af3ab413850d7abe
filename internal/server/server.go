package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/unienroll/internal/bootstrap"
	"github.com/yigit/unienroll/internal/config"
	"github.com/yigit/unienroll/internal/db"
	"github.com/yigit/unienroll/internal/pkg/helpers"
)

// Server is the REST backend process: router, listener and store resources.
type Server struct {
	config   *config.Config
	handler  http.Handler
	database *db.PostgresDB
	logger   zerolog.Logger
	http     *http.Server
}

// NewServer loads .env and configs/config.yaml, then builds the server.
func NewServer(ctx context.Context) (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}
	return New(ctx, cfg, lgr)
}

// New builds a server from an already loaded configuration
func New(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Server, error) {
	store, database, err := bootstrap.SetupStore(ctx, cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup store: %w", err)
	}

	s := &Server{config: cfg, database: database, logger: lgr}

	deps, err := bootstrap.BuildDependencies(ctx, cfg, store, lgr)
	if err != nil {
		s.closeDatabase()
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}
	deps.Database = database

	s.handler = bootstrap.WithCORS(cfg, bootstrap.SetupRouter(cfg, deps))
	return s, nil
}

// Handler exposes the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves HTTP until ctx is canceled, SIGINT/SIGTERM arrives or the
// listener fails, then shuts down.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.http = &http.Server{
		Addr:              ":" + s.config.Server.Port,
		Handler:           s.handler,
		ReadTimeout:       helpers.ParseDuration(s.config.Server.ReadTimeout, 10*time.Second),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      helpers.ParseDuration(s.config.Server.WriteTimeout, 10*time.Second),
		IdleTimeout:       120 * time.Second,
	}

	listenErr := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Str("store", s.config.Store.Driver).Msg("HTTP server listening")
		listenErr <- s.http.ListenAndServe()
	}()

	select {
	case err := <-listenErr:
		if !errors.Is(err, http.ErrServerClosed) {
			s.closeDatabase()
			return fmt.Errorf("http listener: %w", err)
		}
	case <-ctx.Done():
		s.logger.Info().Msg("Stop requested, shutting down")
	}

	// ctx is already done here; the shutdown gets its own deadline
	return s.Shutdown(context.WithoutCancel(ctx))
}

// Shutdown drains in-flight requests and closes the database pool
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, helpers.ParseDuration(s.config.Server.ShutdownTimeout, 10*time.Second))
	defer cancel()

	var err error
	if s.http != nil {
		if err = s.http.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server shutdown error")
			err = fmt.Errorf("http shutdown: %w", err)
		}
	}
	s.closeDatabase()

	s.logger.Info().Msg("Server stopped")
	return err
}

func (s *Server) closeDatabase() {
	if s.database != nil {
		s.database.Close()
		s.database = nil
	}
}
