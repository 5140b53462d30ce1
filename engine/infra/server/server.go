package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/equipsight/equipsight/engine/infra/postgres"
	"github.com/equipsight/equipsight/pkg/config"
	"github.com/equipsight/equipsight/pkg/logger"
)

// Server runs the EquipSight HTTP API.
type Server struct {
	cfg  *config.Config
	deps *Dependencies
	http *http.Server
}

// NewServer wires dependencies and builds the HTTP server. AutoMigrate runs
// the embedded migrations before the pool opens.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	if cfg.Database.AutoMigrate {
		dsn := storeConfig(cfg).DSN()
		if err := postgres.ApplyMigrationsWithLock(ctx, dsn); err != nil {
			return nil, fmt.Errorf("applying migrations: %w", err)
		}
	}
	ctx = config.ContextWithConfig(ctx, cfg)
	deps, err := buildDependencies(ctx, cfg)
	if err != nil {
		return nil, err
	}
	router := buildRouter(cfg, deps)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	return &Server{
		cfg:  cfg,
		deps: deps,
		http: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.Timeout,
			WriteTimeout: cfg.Server.Timeout,
		},
	}, nil
}

// Run serves until the context is canceled or SIGINT/SIGTERM arrives, then
// shuts down gracefully within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down", "timeout", s.cfg.Server.ShutdownTimeout.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if s.deps.Store != nil {
		if err := s.deps.Store.Close(shutdownCtx); err != nil {
			log.Error("Failed to close database pool", "error", err)
		}
	}
	log.Info("Server stopped")
	return nil
}
