package redis

import (
	"context"

	"assistant-chat/internal/events"

	"github.com/redis/go-redis/v9"
)

var _ events.Publisher = (*Publisher)(nil)

type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

func (p *Publisher) Publish(ctx context.Context, channel string, payload []byte) error {
	return p.client.Publish(ctx, channel, payload).Err()
}
