package websocket

import (
	"context"

	"assistant-chat/internal/events"
)

// RedisBridge fans events published by any API instance out to local clients.
type RedisBridge struct {
	subscriber events.Subscriber
	hub        *Hub
}

func NewRedisBridge(subscriber events.Subscriber, hub *Hub) *RedisBridge {
	return &RedisBridge{subscriber: subscriber, hub: hub}
}

func (b *RedisBridge) Run(ctx context.Context) error {
	return b.subscriber.Subscribe(ctx, []string{events.ChatChannelPattern}, func(channel string, payload []byte) {
		b.hub.Broadcast(channel, payload)
	})
}
