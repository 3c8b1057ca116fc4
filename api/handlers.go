package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/switchboardco/switchboard/pkg/chat"
	"github.com/switchboardco/switchboard/pkg/utils"
	"github.com/switchboardco/switchboard/pkg/validate"
)

// ErrorResponse is the JSON body for hard failures.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ChatRequest is the inbound chat payload.
type ChatRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse mirrors the engine's terminal result.
type ChatResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"session_id"`
	Response  string `json:"response"`
	QueryType string `json:"query_type"`
}

// HistoryResponse contains a session's turns in chronological order.
type HistoryResponse struct {
	Success   bool        `json:"success"`
	SessionID string      `json:"session_id"`
	History   []chat.Turn `json:"history"`
	Source    string      `json:"source"`
}

// ClearResponse reports a session clear.
type ClearResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"session_id"`
	Cleared   bool   `json:"cleared"`
}

// handleChat routes one query through the engine. Degraded handler outcomes
// are 200s with success=false; only a store outage becomes a 500.
func (s *Server) handleChat(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	if req.SessionID != "" {
		if err := validate.SessionID(req.SessionID); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
		}
	}

	result, err := s.engine.Process(c.Context(), req.Query, req.SessionID)
	if err != nil {
		s.logger.Error("chat request failed",
			zap.String("session_id", req.SessionID),
			zap.String("query", utils.Truncate(req.Query, 50)),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to process query"})
	}

	return c.JSON(ChatResponse{
		Success:   result.Success,
		SessionID: result.SessionID,
		Response:  result.Response,
		QueryType: string(result.QueryType),
	})
}

// handleHistory returns a session's conversation history.
func (s *Server) handleHistory(c *fiber.Ctx) error {
	sessionID := c.Params("session_id")
	if err := validate.SessionID(sessionID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid limit parameter"})
		}
		limit = parsed
	}

	history, err := s.engine.History(c.Context(), sessionID, limit)
	if err != nil {
		s.logger.Error("history read failed",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to read history"})
	}

	return c.JSON(HistoryResponse{
		Success:   true,
		SessionID: sessionID,
		History:   history.Turns,
		Source:    history.Source,
	})
}

// handleClearSession removes a session's turns. Clearing an unknown session
// is a 200 with cleared=false, not an error.
func (s *Server) handleClearSession(c *fiber.Ctx) error {
	sessionID := c.Params("session_id")
	if err := validate.SessionID(sessionID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	cleared, err := s.engine.ClearSession(c.Context(), sessionID)
	if err != nil {
		s.logger.Error("session clear failed",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to clear session"})
	}

	return c.JSON(ClearResponse{
		Success:   true,
		SessionID: sessionID,
		Cleared:   cleared,
	})
}

// handleStatistics returns the usage rollup.
func (s *Server) handleStatistics(c *fiber.Ctx) error {
	snapshot, err := s.engine.Statistics(c.Context())
	if err != nil {
		s.logger.Error("statistics rollup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to compute statistics"})
	}

	return c.JSON(snapshot)
}

// handleHealth returns liveness only; no deep dependency probing.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": "switchboard",
		"version": utils.Version,
	})
}
