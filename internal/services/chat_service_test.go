package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"assistant-chat/internal/domain/chat"
	"assistant-chat/internal/events"
	"assistant-chat/internal/mocks"
	"assistant-chat/internal/repository"
	assistant_errors "assistant-chat/pkg/errors"
	"assistant-chat/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func decodeEnvelope(t *testing.T, payload []byte) events.Envelope {
	t.Helper()
	var env events.Envelope
	require.NoError(t, json.Unmarshal(payload, &env))
	return env
}

func TestChatService_SendMessagePublishesToChatChannel(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockChatRepository(ctrl)
	publisher := mocks.NewMockPublisher(ctrl)
	service := NewChatService(repo, publisher, logger.NewNop())

	in := chat.NewMessage{Sender: "user", Text: "hello", Timestamp: 1000, ImageURLs: []string{"https://cdn/a.png"}}
	stored := chat.Message{ID: 1, ChatID: 7, Sender: "user", Text: "hello", Timestamp: 1000, Images: chat.BuildImages(in.ImageURLs)}

	repo.EXPECT().AddMessage(ctx, int64(7), in).Return(stored, nil)
	publisher.EXPECT().Publish(ctx, "channel:chat:7", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, payload []byte) error {
			env := decodeEnvelope(t, payload)
			req.Equal(events.EventTypeMessageCreated, env.EventType)
			req.Equal(events.AggregateTypeChat, env.AggregateType)
			req.Equal("7", env.AggregateID)

			var body events.MessagePayload
			req.NoError(json.Unmarshal(env.Payload, &body))
			req.Equal(int64(1), body.MessageID)
			req.Equal("hello", body.Text)
			req.Equal([]events.ImagePayload{{Position: 0, URL: "https://cdn/a.png"}}, body.Images)
			return nil
		})

	msg, err := service.SendMessage(ctx, 7, in)
	req.NoError(err)
	req.Equal(stored, msg)
}

func TestChatService_UnknownChatPublishesNothing(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockChatRepository(ctrl)
	publisher := mocks.NewMockPublisher(ctrl)
	service := NewChatService(repo, publisher, logger.NewNop())

	repo.EXPECT().AddMessage(ctx, int64(99), gomock.Any()).Return(chat.Message{}, assistant_errors.ErrChatNotFound)
	repo.EXPECT().RenameChat(ctx, int64(99), "x").Return(chat.Chat{}, assistant_errors.ErrChatNotFound)
	repo.EXPECT().DeleteChat(ctx, int64(99)).Return(assistant_errors.ErrChatNotFound)

	_, err := service.SendMessage(ctx, 99, chat.NewMessage{Sender: "user", Text: "?"})
	req.ErrorIs(err, assistant_errors.ErrNotFound)
	_, err = service.RenameChat(ctx, 99, "x")
	req.ErrorIs(err, assistant_errors.ErrNotFound)
	req.ErrorIs(service.DeleteChat(ctx, 99), assistant_errors.ErrNotFound)
}

func TestChatService_PublishFailureDoesNotFailWrite(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockChatRepository(ctrl)
	publisher := mocks.NewMockPublisher(ctrl)
	service := NewChatService(repo, publisher, logger.NewNop())

	repo.EXPECT().CreateChat(ctx, "Support").Return(chat.Chat{ID: 1, Title: "Support"}, nil)
	publisher.EXPECT().Publish(ctx, "channel:chat:1", gomock.Any()).Return(errors.New("redis down"))

	c, err := service.CreateChat(ctx, "Support")
	req.NoError(err)
	req.Equal(int64(1), c.ID)
}

func TestChatService_ChatEvents(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockChatRepository(ctrl)
	publisher := mocks.NewMockPublisher(ctrl)
	service := NewChatService(repo, publisher, logger.NewNop())

	var seen []string
	publisher.EXPECT().Publish(ctx, "channel:chat:3", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, payload []byte) error {
			seen = append(seen, decodeEnvelope(t, payload).EventType)
			return nil
		}).Times(3)

	gomock.InOrder(
		repo.EXPECT().CreateChat(ctx, "a").Return(chat.Chat{ID: 3, Title: "a"}, nil),
		repo.EXPECT().RenameChat(ctx, int64(3), "b").Return(chat.Chat{ID: 3, Title: "b"}, nil),
		repo.EXPECT().DeleteChat(ctx, int64(3)).Return(nil),
	)

	_, err := service.CreateChat(ctx, "a")
	req.NoError(err)
	_, err = service.RenameChat(ctx, 3, "b")
	req.NoError(err)
	req.NoError(service.DeleteChat(ctx, 3))

	req.Equal([]string{events.EventTypeChatCreated, events.EventTypeChatRenamed, events.EventTypeChatDeleted}, seen)
}

func TestChatService_ReadsPassThrough(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockChatRepository(ctrl)
	service := NewChatService(repo, nil, nil)

	repo.EXPECT().GetAllChats(ctx).Return([]chat.Chat{{ID: 1, Title: "a"}, {ID: 2, Title: "b"}}, nil)
	repo.EXPECT().GetMessages(ctx, int64(1)).Return([]chat.Message{}, nil)
	repo.EXPECT().GetChat(ctx, int64(2)).Return(chat.Chat{ID: 2, Title: "b", Messages: []chat.Message{}}, nil)
	repo.EXPECT().Ping(ctx).Return(nil)

	chats, err := service.ListChats(ctx)
	req.NoError(err)
	req.Len(chats, 2)

	msgs, err := service.ListMessages(ctx, 1)
	req.NoError(err)
	req.Empty(msgs)

	c, err := service.GetChat(ctx, 2)
	req.NoError(err)
	req.Equal("b", c.Title)

	req.NoError(service.Ping(ctx))
}

func TestChatService_WithMemoryRepository(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	service := NewChatService(repository.NewMemoryChatRepository(), nil, logger.NewNop())

	c, err := service.CreateChat(ctx, "Support")
	req.NoError(err)
	m1, err := service.SendMessage(ctx, c.ID, chat.NewMessage{Sender: "user", Text: "hello", Timestamp: 1000})
	req.NoError(err)
	m2, err := service.SendMessage(ctx, c.ID, chat.NewMessage{Sender: "bot", Text: "hi", Timestamp: 1001})
	req.NoError(err)

	msgs, err := service.ListMessages(ctx, c.ID)
	req.NoError(err)
	req.Equal([]chat.Message{m1, m2}, msgs)
}
