package websocket

import (
	"context"
	"net/http"
	"strconv"

	"assistant-chat/internal/domain/chat"
	"assistant-chat/internal/transport/httpdto"
	assistant_errors "assistant-chat/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// ChatFinder is the lookup the handler needs before opening a feed.
type ChatFinder interface {
	GetChat(ctx context.Context, chatID int64) (chat.Chat, error)
}

type Handler struct {
	chats    ChatFinder
	hub      *Hub
	log      *Logger
	upgrader websocket.Upgrader
}

func NewHandler(chats ChatFinder, hub *Hub, log *Logger) *Handler {
	return &Handler{
		chats: chats,
		hub:   hub,
		log:   log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Connect streams the events of one chat to the caller until it disconnects.
func (h *Handler) Connect(c *gin.Context) {
	chatID, err := strconv.ParseInt(c.Param("chat_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid chat_id", httpdto.CodeInvalidRequest))
		return
	}

	if _, err := h.chats.GetChat(c.Request.Context(), chatID); err != nil {
		if assistant_errors.IsNotFound(err) {
			c.JSON(http.StatusNotFound, httpdto.NewErrorResponse(httpdto.ChatNotFoundDetail, httpdto.CodeChatNotFound))
			return
		}
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("internal error", httpdto.CodeInternal))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("upgrade_failed", chatID, "", err)
		return
	}

	client := NewClient(conn, chatID)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h.hub.Register(client)
	h.log.Info("connected", chatID, client.ID)
	go client.WriteLoop(ctx)

	client.ReadLoop()

	h.hub.Unregister(client)
	h.log.Info("disconnected", chatID, client.ID)
}
