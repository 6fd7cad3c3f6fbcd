package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionClearer forgets a conversation
type SessionClearer interface {
	Clear(ctx context.Context, sessionID string) error
}

// SessionHandler handles session-related HTTP requests
type SessionHandler struct {
	sessions SessionClearer
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions SessionClearer) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
	}
}

// Clear handles DELETE /api/v1/ai/sessions/:id
func (h *SessionHandler) Clear(c *gin.Context) {
	sessionID := c.Param("id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session ID is required"})
		return
	}

	if err := h.sessions.Clear(c.Request.Context(), sessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear session: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Session cleared"})
}
