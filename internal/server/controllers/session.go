// Package controllers implements the HTTP endpoints of the explainer server.
package controllers

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/harrison/explainer/internal/models"
)

// MsgNoStructure is returned when no upload has been ingested yet.
const MsgNoStructure = "No file structure found"

// Session holds the RunContext of the most recent successful upload.
// The server keeps exactly one; each upload replaces it.
type Session struct {
	mu  sync.RWMutex
	run *models.RunContext
}

// Current returns the active RunContext or nil.
func (s *Session) Current() *models.RunContext {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.run
}

// Replace installs rc as the active RunContext.
func (s *Session) Replace(rc *models.RunContext) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.run = rc
}

// errorJSON writes the {"error": msg} body used by every failing endpoint.
func errorJSON(ctx echo.Context, status int, msg string) error {
	return ctx.JSON(status, map[string]string{"error": msg})
}

// requireRun returns the active RunContext or writes the 400 response.
func requireRun(ctx echo.Context, session *Session) (*models.RunContext, error) {
	rc := session.Current()
	if rc == nil {
		return nil, errorJSON(ctx, http.StatusBadRequest, MsgNoStructure)
	}
	return rc, nil
}
