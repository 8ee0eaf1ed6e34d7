package handler

import (
	"net/http"

	"assistant-chat/internal/domain/chat"
	"assistant-chat/internal/services"
	"assistant-chat/internal/transport/httpdto"
	"assistant-chat/pkg/logger"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	service *services.ChatService
	logger  *logger.Logger
}

func NewChatHandler(service *services.ChatService, l *logger.Logger) *ChatHandler {
	if l == nil {
		l = logger.NewNop()
	}
	return &ChatHandler{service: service, logger: l}
}

func (h *ChatHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, httpdto.MessageResponse{Message: "Backend is working!"})
}

func (h *ChatHandler) Health(c *gin.Context) {
	if err := h.service.Ping(c.Request.Context()); err != nil {
		h.logger.Errorf("health check failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse("store unavailable", httpdto.CodeUnhealthy))
		return
	}
	c.JSON(http.StatusOK, httpdto.HealthResponse{Status: "healthy"})
}

func (h *ChatHandler) CreateChat(c *gin.Context) {
	var req httpdto.CreateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	res, err := h.service.CreateChat(c.Request.Context(), req.Title)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewChatSummary(res))
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req httpdto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	msg, err := h.service.SendMessage(c.Request.Context(), *req.ChatID, chat.NewMessage{
		Sender:    *req.Sender,
		Text:      *req.Text,
		Timestamp: *req.Timestamp,
		ImageURLs: req.Images,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewMessage(msg))
}

func (h *ChatHandler) ListMessages(c *gin.Context) {
	chatID, ok := parseChatID(c)
	if !ok {
		return
	}
	messages, err := h.service.ListMessages(c.Request.Context(), chatID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewMessages(messages))
}

func (h *ChatHandler) ListChats(c *gin.Context) {
	chats, err := h.service.ListChats(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewChatSummaries(chats))
}

func (h *ChatHandler) GetChat(c *gin.Context) {
	chatID, ok := parseChatID(c)
	if !ok {
		return
	}
	res, err := h.service.GetChat(c.Request.Context(), chatID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewChatDetail(res))
}

func (h *ChatHandler) RenameChat(c *gin.Context) {
	chatID, ok := parseChatID(c)
	if !ok {
		return
	}
	var req httpdto.RenameChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	res, err := h.service.RenameChat(c.Request.Context(), chatID, *req.Title)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewChatSummary(res))
}

func (h *ChatHandler) DeleteChat(c *gin.Context) {
	chatID, ok := parseChatID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteChat(c.Request.Context(), chatID); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.SuccessResponse{Success: true})
}
