// Package server runs the HTTP API until its context is cancelled.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/kosarica/invite-service/config"
	"github.com/kosarica/invite-service/internal/handlers"
	"github.com/kosarica/invite-service/internal/invite"
	"github.com/kosarica/invite-service/internal/middleware"
	"github.com/kosarica/invite-service/internal/telemetry"
)

const limiterCleanupInterval = time.Minute

// Server owns the listener lifecycle.
type Server struct {
	cfg     *config.Config
	logger  zerolog.Logger
	limiter *middleware.IPRateLimiter
	srv     *http.Server

	initTelemetry func(context.Context, telemetry.Config) (telemetry.ShutdownFunc, error)
}

// New builds the router and HTTP server from cfg.
func New(cfg *config.Config, logger zerolog.Logger) *Server {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	service := invite.NewService(cfg.ReferencePoint(), cfg.InviteConfig(),
		invite.WithLogger(logger.With().Str("component", "invite_service").Logger()))

	var limiter *middleware.IPRateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewIPRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstSize:         cfg.RateLimit.Burst,
		})
	}

	router := handlers.NewRouter(handlers.Deps{
		Service:     service,
		Logger:      logger,
		APIKey:      cfg.Server.APIKey,
		RateLimiter: limiter,
	})

	return &Server{
		cfg:     cfg,
		logger:  logger,
		limiter: limiter,
		srv: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		initTelemetry: telemetry.Init,
	}
}

// Handler exposes the router.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	shutdownTelemetry, err := s.initTelemetry(ctx, s.cfg.TelemetryConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		// ctx is done by now; flushing gets its own deadline.
		flushCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(flushCtx); err != nil {
			s.logger.Warn().Err(err).Msg("Telemetry shutdown failed")
		}
	}()

	listener, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.srv.Addr, err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info().Str("addr", listener.Addr().String()).Msg("Server listening")
		if err := s.srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	if s.limiter != nil {
		g.Go(func() error {
			s.limiter.RunCleanup(gctx, limiterCleanupInterval)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error().Err(err).Msg("Server forced to shutdown")
			return err
		}
		return nil
	})

	err = g.Wait()
	s.logger.Info().Msg("Server exited")
	return err
}
