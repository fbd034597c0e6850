// Package api exposes the engine over HTTP: command execution and a
// health probe.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/testzeus/hercules/pkg/models"
	"github.com/testzeus/hercules/pkg/version"
)

// Processor runs one test command to completion; the orchestrator
// satisfies it.
type Processor interface {
	ProcessCommand(ctx context.Context, command, currentURL string) (*models.ChatResult, error)
}

// commandRequest is the POST /api/v1/commands body.
type commandRequest struct {
	Command    string `json:"command" binding:"required"`
	CurrentURL string `json:"current_url"`
}

// Server is the gin-backed HTTP surface.
type Server struct {
	engine Processor
	router *gin.Engine
}

// NewServer builds the router around a processor.
func NewServer(engine Processor) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{engine: engine, router: router}

	v1 := router.Group("/api/v1")
	v1.POST("/commands", s.handleCommand)
	v1.GET("/health", s.handleHealth)
	return s
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Run blocks serving HTTP on the given port.
func (s *Server) Run(port int) error {
	addr := fmt.Sprintf(":%d", port)
	slog.Info("HTTP API listening", "addr", addr)
	return s.router.Run(addr)
}

func (s *Server) handleCommand(c *gin.Context) {
	var req commandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.engine.ProcessCommand(c.Request.Context(), req.Command, req.CurrentURL)
	if err != nil {
		slog.Error("command execution failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version.Version})
}
