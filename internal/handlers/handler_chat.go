package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hearthfin/hearth_backend/internal/ai"
	portssvc "github.com/hearthfin/hearth_backend/internal/core/ports/services"
	"github.com/hearthfin/hearth_backend/internal/dto"
	"github.com/hearthfin/hearth_backend/internal/middleware"
)

// chatHandler handles assistant conversation requests. A nil assistant means
// no chat client is configured; message sending then reports 503.
type chatHandler struct {
	conversationService portssvc.ConversationSvcFacade
	assistant           *ai.Assistant
}

// registerChatRoutes registers the assistant conversation routes.
func registerChatRoutes(rg *gin.RouterGroup, cs portssvc.ConversationSvcFacade, assistant *ai.Assistant) {
	h := &chatHandler{conversationService: cs, assistant: assistant}

	conversations := rg.Group("/conversations")
	{
		conversations.POST("", h.createConversation)
		conversations.GET("", h.listConversations)
		conversations.GET("/:id", h.getConversation)
		conversations.GET("/:id/messages", h.listMessages)
		conversations.POST("/:id/messages", h.sendMessage)
	}
}

func (h *chatHandler) createConversation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateConversationRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	conversation, err := h.conversationService.CreateConversation(c.Request.Context(), req.Title)
	if err != nil {
		respondError(c, logger, err, "Failed to create conversation")
		return
	}
	c.JSON(http.StatusCreated, conversation)
}

func (h *chatHandler) listConversations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	conversations, err := h.conversationService.ListConversations(c.Request.Context(), limit)
	if err != nil {
		respondError(c, logger, err, "Failed to list conversations")
		return
	}
	c.JSON(http.StatusOK, conversations)
}

func (h *chatHandler) getConversation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	conversation, err := h.conversationService.GetConversation(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve conversation")
		return
	}
	c.JSON(http.StatusOK, conversation)
}

func (h *chatHandler) listMessages(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	messages, err := h.conversationService.ListMessages(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to list messages")
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (h *chatHandler) sendMessage(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if h.assistant == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Assistant is not configured"})
		return
	}

	var req dto.SendMessageRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	response, err := h.assistant.SendMessage(c.Request.Context(), c.Param("id"), req.Content)
	if err != nil {
		respondError(c, logger, err, "Failed to process message")
		return
	}
	c.JSON(http.StatusOK, response)
}
