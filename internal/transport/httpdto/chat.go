package httpdto

import (
	"assistant-chat/internal/domain/chat"

	"github.com/samber/lo"
)

type CreateChatRequest struct {
	Title string `json:"title"`
}

type RenameChatRequest struct {
	Title *string `json:"title" binding:"required"`
}

type ChatSummary struct {
	ChatID int64  `json:"chat_id"`
	Title  string `json:"title"`
}

type ChatDetail struct {
	ChatID   int64     `json:"chat_id"`
	Title    string    `json:"title"`
	Messages []Message `json:"messages"`
}

func NewChatSummary(c chat.Chat) ChatSummary {
	return ChatSummary{ChatID: c.ID, Title: c.Title}
}

func NewChatSummaries(chats []chat.Chat) []ChatSummary {
	return lo.Map(chats, func(c chat.Chat, _ int) ChatSummary {
		return NewChatSummary(c)
	})
}

func NewChatDetail(c chat.Chat) ChatDetail {
	return ChatDetail{
		ChatID:   c.ID,
		Title:    c.Title,
		Messages: NewMessages(c.Messages),
	}
}
