package websocket

import (
	"go.uber.org/zap"
)

// Logger provides structured logging for WebSocket events
type Logger struct {
	logger *zap.Logger
}

func NewLogger(base *zap.Logger) *Logger {
	if base == nil {
		base = zap.NewNop()
	}
	return &Logger{
		logger: base.With(zap.String("component", "websocket")),
	}
}

func (l *Logger) Info(event string, chatID int64, clientID string, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.String("event", event),
		zap.Int64("chat_id", chatID),
		zap.String("client_id", clientID),
	}, fields...)
	l.logger.Info("websocket_event", allFields...)
}

func (l *Logger) Error(event string, chatID int64, clientID string, err error, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.String("event", event),
		zap.Int64("chat_id", chatID),
		zap.String("client_id", clientID),
		zap.Error(err),
	}, fields...)
	l.logger.Error("websocket_error", allFields...)
}
