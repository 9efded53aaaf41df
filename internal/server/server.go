// Package server is the mini app's backing service: it proxies quote
// lookups so the API key stays server-side, and serves the Farcaster
// manifest and webhook endpoints.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Server wraps the echo HTTP server with lifecycle management.
type Server struct {
	e      *echo.Echo
	cfg    *Config
	closed chan struct{}
}

// New creates the HTTP server with routes and middleware registered.
func New(cfg *Config, h *Handlers, log *logrus.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Server.ReadTimeout = 15 * time.Second
	e.Server.WriteTimeout = 75 * time.Second
	e.Server.IdleTimeout = 60 * time.Second

	e.Use(middleware.Recover())
	e.Use(requestLogger(log))

	registerRoutes(e, h)

	return &Server{e: e, cfg: cfg, closed: make(chan struct{})}
}

// Echo exposes the underlying router, for tests.
func (s *Server) Echo() *echo.Echo {
	return s.e
}

// Start begins serving on the configured address.
func (s *Server) Start() error {
	return s.e.Start(s.cfg.Addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	defer close(s.closed)
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.e.Shutdown(ctx)
}

// WaitClosed blocks until shutdown completes or the context expires.
func (s *Server) WaitClosed(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.closed:
		return nil
	}
}

func registerRoutes(e *echo.Echo, h *Handlers) {
	e.HTTPErrorHandler = jsonErrors()

	e.GET("/api/health", h.Health)
	e.GET("/.well-known/farcaster.json", h.Manifest)
	e.POST("/api/webhook", h.Webhook)

	// The proxy routes are rate limited per client IP so one browser
	// cannot burn the upstream quota.
	quoted := e.Group("/api")
	quoted.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStoreWithConfig(
		middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(5),
			Burst:     10,
			ExpiresIn: 3 * time.Minute,
		},
	)))
	quoted.GET("/price", h.Price)
	quoted.GET("/quote", h.Quote)

	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found", Code: http.StatusNotFound})
	})
}

// jsonErrors keeps every error response, 404s included, in the standard
// JSON shape.
func jsonErrors() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		if he, ok := err.(*echo.HTTPError); ok {
			_ = c.JSON(he.Code, ErrorResponse{Error: http.StatusText(he.Code), Code: he.Code})
			return
		}
		_ = c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "internal server error",
			Code:  http.StatusInternalServerError,
		})
	}
}

func requestLogger(log *logrus.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := log.WithFields(logrus.Fields{
				"method": v.Method,
				"uri":    v.URI,
				"status": v.Status,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Warn("request failed")
				return nil
			}
			entry.Info("request")
			return nil
		},
	})
}
