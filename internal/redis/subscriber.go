package redis

import (
	"context"
	"errors"

	"assistant-chat/internal/events"

	"github.com/redis/go-redis/v9"
)

var _ events.Subscriber = (*Subscriber)(nil)

var errSubscriptionClosed = errors.New("redis subscription closed")

type Subscriber struct {
	client *redis.Client
}

func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe pattern-subscribes to channels and blocks until ctx is done.
// Dropped connections are re-established and resubscribed by the client.
func (s *Subscriber) Subscribe(ctx context.Context, channels []string, handler func(channel string, payload []byte)) error {
	sub := s.client.PSubscribe(ctx, channels...)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return errSubscriptionClosed
			}
			handler(msg.Channel, []byte(msg.Payload))
		}
	}
}
