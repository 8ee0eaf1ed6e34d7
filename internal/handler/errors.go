package handler

import (
	"errors"
	"net/http"
	"strconv"

	"assistant-chat/internal/transport/httpdto"
	assistant_errors "assistant-chat/pkg/errors"

	"github.com/gin-gonic/gin"
)

func parseChatID(c *gin.Context) (int64, bool) {
	chatID, err := strconv.ParseInt(c.Param("chat_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid chat_id", httpdto.CodeInvalidRequest))
		return 0, false
	}
	return chatID, true
}

func invalidRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request: "+err.Error(), httpdto.CodeInvalidRequest))
}

// writeServiceError maps a service error to its response. Unexpected errors are hidden
// from the client and attached to the context for the error middleware to log.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case assistant_errors.IsNotFound(err):
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse(httpdto.ChatNotFoundDetail, httpdto.CodeChatNotFound))
	case errors.Is(err, assistant_errors.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(err.Error(), httpdto.CodeInvalidRequest))
	case errors.Is(err, assistant_errors.ErrUnsupportedMedia):
		c.JSON(http.StatusUnsupportedMediaType, httpdto.NewErrorResponse(err.Error(), httpdto.CodeUnsupportedMedia))
	case errors.Is(err, assistant_errors.ErrServiceUnavailable):
		c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse("service unavailable", httpdto.CodeUnhealthy))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("internal error", httpdto.CodeInternal))
	}
}
