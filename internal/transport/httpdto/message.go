package httpdto

import (
	"assistant-chat/internal/domain/chat"

	"github.com/samber/lo"
)

// SendMessageRequest uses pointers so a missing field is told apart from a zero value.
type SendMessageRequest struct {
	ChatID    *int64   `json:"chat_id" binding:"required"`
	Sender    *string  `json:"sender" binding:"required"`
	Text      *string  `json:"text" binding:"required"`
	Timestamp *int64   `json:"timestamp" binding:"required"`
	Images    []string `json:"images" binding:"omitempty,max=10,dive,url"`
}

type Image struct {
	Position int    `json:"position"`
	URL      string `json:"url"`
}

type Message struct {
	MessageID int64   `json:"message_id"`
	Sender    string  `json:"sender"`
	Text      string  `json:"text"`
	Timestamp int64   `json:"timestamp"`
	Images    []Image `json:"images,omitempty"`
}

func NewMessage(m chat.Message) Message {
	return Message{
		MessageID: m.ID,
		Sender:    m.Sender,
		Text:      m.Text,
		Timestamp: m.Timestamp,
		Images: lo.Map(m.Images, func(img chat.Image, _ int) Image {
			return Image{Position: img.Position, URL: img.URL}
		}),
	}
}

// NewMessages never returns nil so an empty history encodes as [].
func NewMessages(messages []chat.Message) []Message {
	out := make([]Message, 0, len(messages))
	for _, m := range messages {
		out = append(out, NewMessage(m))
	}
	return out
}
