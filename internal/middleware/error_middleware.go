package middleware

import (
	"net/http"

	"assistant-chat/internal/transport/httpdto"
	"assistant-chat/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler logs errors attached via c.Error and answers with a JSON error when the
// handler did not write a body itself.
func ErrorHandler(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		if l != nil {
			l.Error(c.Request.Context(), "request error",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Int("status", c.Writer.Status()),
				zap.Error(err))
		}
		if c.Writer.Written() {
			return
		}
		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			status = http.StatusInternalServerError
		}
		c.JSON(status, httpdto.NewErrorResponse("internal error", httpdto.CodeInternal))
	}
}

// Recovery turns a panic into a 500 with the usual error body.
func Recovery(l *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		if l != nil {
			l.Error(c.Request.Context(), "panic recovered", zap.Any("panic", recovered))
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, httpdto.NewErrorResponse("internal error", httpdto.CodeInternal))
	})
}
