package events

import (
	"encoding/json"
	"fmt"
	"time"
)

type Envelope struct {
	EventType     string          `json:"event_type"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

// NewChatEnvelope wraps payload as an event about chat chatID.
func NewChatEnvelope(eventType string, chatID int64, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return Envelope{
		EventType:     eventType,
		AggregateType: AggregateTypeChat,
		AggregateID:   fmt.Sprintf("%d", chatID),
		OccurredAt:    time.Now().UTC(),
		Payload:       raw,
	}, nil
}
