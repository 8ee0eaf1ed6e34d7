package events

// Chat events
const (
	EventTypeChatCreated = "chat.created"
	EventTypeChatRenamed = "chat.renamed"
	EventTypeChatDeleted = "chat.deleted"
)

// Message events
const (
	EventTypeMessageCreated = "message.created"
)

// Aggregate type constants
const (
	AggregateTypeChat = "chat"
)

type ChatPayload struct {
	ChatID int64  `json:"chat_id"`
	Title  string `json:"title"`
}

type ImagePayload struct {
	Position int    `json:"position"`
	URL      string `json:"url"`
}

type MessagePayload struct {
	ChatID    int64          `json:"chat_id"`
	MessageID int64          `json:"message_id"`
	Sender    string         `json:"sender"`
	Text      string         `json:"text"`
	Timestamp int64          `json:"timestamp"`
	Images    []ImagePayload `json:"images,omitempty"`
}
