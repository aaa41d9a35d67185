package main

import (
	"context"
	"time"

	"github.com/JaimeStill/color-lab/internal/api"
	"github.com/JaimeStill/color-lab/internal/config"
	"github.com/JaimeStill/color-lab/internal/infrastructure"
	"github.com/JaimeStill/color-lab/internal/server"
)

// Server coordinates the lifecycle of all subsystems.
type Server struct {
	infra *infrastructure.Infrastructure
	http  server.System
}

// NewServer creates and initializes the service with all subsystems.
func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra, cfg.API.BasePath, api.NewHandler(cfg, infra))

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"api", cfg.API.BasePath,
	)

	return &Server{
		infra: infra,
		http:  server.New(&cfg.Server, router, infra.Logger),
	}, nil
}

// Start begins all subsystems and returns when they are registered.
func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		if err := s.infra.Lifecycle.Err(); err != nil {
			s.infra.Logger.Error("subsystems failed to start", "error", err)
			return
		}
		s.infra.Logger.Info("all subsystems ready")
	}()

	return nil
}

// Shutdown drains in-flight classifications, then stops the remaining
// subsystems within timeout.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.infra.Workers.Shutdown(ctx); err != nil {
		s.infra.Logger.Error("worker pool drain incomplete", "error", err)
	}

	deadline, _ := ctx.Deadline()
	return s.infra.Lifecycle.Shutdown(max(time.Until(deadline), time.Second))
}
