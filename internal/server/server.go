// Package server provides the HTTP intake API for claimroute.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/ppiankov/claimroute/internal/metrics"
	"github.com/ppiankov/claimroute/internal/model"
)

// Processor routes the claim in a document's text
type Processor interface {
	ProcessText(ctx context.Context, text string, cfg model.RoutingConfig) (*model.Result, error)
}

// Server serves the claim intake endpoints
type Server struct {
	echo      *echo.Echo
	processor Processor
	routing   model.RoutingConfig
	metrics   *metrics.Metrics
	logger    *zap.Logger
	config    model.ServerConfig
}

// New creates a server. routing supplies the threshold for requests that omit one.
func New(processor Processor, routing model.RoutingConfig, cfg model.ServerConfig, m *metrics.Metrics, logger *zap.Logger) (*Server, error) {
	if processor == nil {
		return nil, fmt.Errorf("processor cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Addr == "" {
		cfg.Addr = model.DefaultConfig().Server.Addr
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = model.DefaultConfig().Server.MaxBodyBytes
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.ReadTimeout

	s := &Server{
		echo:      e,
		processor: processor,
		routing:   routing,
		metrics:   m,
		logger:    logger,
		config:    cfg,
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(s.requestLogger)
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dB", cfg.MaxBodyBytes)))

	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))

	v1 := s.echo.Group("/api/v1")
	v1.POST("/claims", s.handleClaim)
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			// Write the error response now so the logged status is final
			c.Error(err)
		}

		status := c.Response().Status
		s.metrics.ObserveHTTP(c.Path(), status)
		s.logger.Info("http request",
			zap.String("method", c.Request().Method),
			zap.String("uri", c.Request().RequestURI),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
		)
		return nil
	}
}

// ClaimRequest is the body of POST /api/v1/claims
type ClaimRequest struct {
	Text               string   `json:"text"`
	FastTrackThreshold *float64 `json:"fastTrackThreshold,omitempty"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleClaim(c echo.Context) error {
	var req ClaimRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid claim request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	routing := s.routing
	if req.FastTrackThreshold != nil {
		if *req.FastTrackThreshold <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "fastTrackThreshold must be positive")
		}
		routing.FastTrackThreshold = *req.FastTrackThreshold
	}

	result, err := s.processor.ProcessText(c.Request().Context(), req.Text, routing)
	if err != nil {
		if errors.Is(err, model.ErrInputMissing) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		s.logger.Error("claim processing failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "claim processing failed")
	}

	return c.JSON(http.StatusOK, result)
}

// Handler exposes the router, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on the configured address until Shutdown
func (s *Server) Start() error {
	s.logger.Info("starting http server", zap.String("addr", s.config.Addr))
	if err := s.echo.Start(s.config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
