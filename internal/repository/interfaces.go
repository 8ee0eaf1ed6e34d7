//go:generate go run go.uber.org/mock/mockgen -source=interfaces.go -destination=../mocks/mock_repository.go -package=mocks
package repository

import (
	"context"

	"assistant-chat/internal/domain/chat"
)

// ChatRepository owns every chat and message record and allocates their identifiers.
// Lookups of an unknown chat return assistant_errors.ErrChatNotFound.
type ChatRepository interface {
	CreateChat(ctx context.Context, title string) (chat.Chat, error)
	GetChat(ctx context.Context, chatID int64) (chat.Chat, error)
	RenameChat(ctx context.Context, chatID int64, title string) (chat.Chat, error)
	DeleteChat(ctx context.Context, chatID int64) error
	// GetAllChats returns chats in creation order, without their messages.
	GetAllChats(ctx context.Context) ([]chat.Chat, error)

	AddMessage(ctx context.Context, chatID int64, in chat.NewMessage) (chat.Message, error)
	GetMessages(ctx context.Context, chatID int64) ([]chat.Message, error)

	Ping(ctx context.Context) error
	Close() error
}
