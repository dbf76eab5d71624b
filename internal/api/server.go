// Package api exposes the pricing editor sessions over HTTP and websocket.
package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/hublishing/fnsretail-sub001/internal/editor"
	"github.com/hublishing/fnsretail-sub001/internal/logger"
	"github.com/hublishing/fnsretail-sub001/internal/observability"
	"github.com/hublishing/fnsretail-sub001/internal/storage"
)

// Config configures the API server.
type Config struct {
	Registry   *editor.Registry
	Channels   storage.ChannelStore      // optional
	Sales      storage.SalesSummaryStore // optional
	SigningKey string
	Logger     *zap.Logger
}

// Server is the HTTP surface over editor sessions.
type Server struct {
	echo     *echo.Echo
	registry *editor.Registry
	channels storage.ChannelStore
	sales    storage.SalesSummaryStore
	logger   *zap.Logger
}

// New creates a server with all routes registered.
func New(cfg Config) *Server {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:     e,
		registry: cfg.Registry,
		channels: cfg.Channels,
		sales:    cfg.Sales,
		logger:   log,
	}

	e.Use(RequestID(log))
	e.Use(Metrics())
	e.Use(logger.Middleware())

	e.GET("/healthz", s.handleHealth)
	e.GET("/metrics", echo.WrapHandler(observability.Handler()))

	v1 := e.Group("/api/v1", Auth([]byte(cfg.SigningKey)))

	ed := v1.Group("/editor")
	ed.GET("", s.handleView)
	ed.POST("/undo", s.handleUndo)
	ed.POST("/redo", s.handleRedo)
	ed.POST("/jump", s.handleJump)
	ed.PUT("/filter", s.handleFilter)
	ed.GET("/effect-types", s.handleEffectTypes)
	ed.POST("/actions/:action", s.handleAction)
	ed.GET("/ws", s.handleStream)

	v1.GET("/channels", s.handleChannels)
	v1.GET("/dashboard/sales", s.handleSales)

	return s
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.logger.Info("starting HTTP server", zap.String("addr", addr))
	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
