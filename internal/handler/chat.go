package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/landsalelk/landsalelk-sub005/internal/metrics"
	"github.com/landsalelk/landsalelk-sub005/internal/model"
	"github.com/landsalelk/landsalelk-sub005/internal/service"
)

// Conversation answers chat requests
type Conversation interface {
	Handle(ctx context.Context, req model.ChatRequest) (*model.AssistantReply, error)
}

// ChatHandler handles assistant HTTP requests
type ChatHandler struct {
	conversation Conversation
	logger       *zap.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(conversation Conversation, logger *zap.Logger) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{
		conversation: conversation,
		logger:       logger,
	}
}

// Chat handles POST /api/v1/ai
func (h *ChatHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.ChatRequests.WithLabelValues("http", "bad_request").Inc()
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request: " + err.Error()})
		return
	}

	reply, err := h.conversation.Handle(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			metrics.ChatRequests.WithLabelValues("http", "bad_request").Inc()
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
			return
		}

		metrics.ChatRequests.WithLabelValues("http", "unavailable").Inc()
		h.logger.Error("assistant unavailable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, model.AssistantReply{
			ResponsePayload: model.Payload(model.ChatResponse{Reply: service.UnavailableReply}),
			SessionID:       req.SessionID,
		})
		return
	}

	metrics.ChatRequests.WithLabelValues("http", "ok").Inc()
	c.JSON(http.StatusOK, reply)
}
