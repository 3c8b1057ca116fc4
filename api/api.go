// Package api exposes the switchboard engine over HTTP: chat, session
// history, session clearing, statistics, and a liveness check.
package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/switchboardco/switchboard/pkg/engine"
)

// Server is the API server fronting the routing engine.
type Server struct {
	config Config
	engine *engine.Engine
	logger *zap.Logger
	app    *fiber.App
}

// NewServer creates a new API server. The engine is injected so the server
// owns no state of its own.
func NewServer(config Config, eng *engine.Engine, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config: config,
		engine: eng,
		logger: logger,
		app:    app,
	}

	app.Post("/api/chat", s.handleChat)
	app.Get("/api/chat/history/:session_id", s.handleHistory)
	app.Delete("/api/chat/session/:session_id", s.handleClearSession)
	app.Get("/api/chat/statistics", s.handleStatistics)
	app.Get("/api/chat/health", s.handleHealth)

	return s
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		zap.String("listen", s.config.ListenAddr),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
