package services

import (
	"context"
	"encoding/json"

	"assistant-chat/internal/domain/chat"
	"assistant-chat/internal/events"
	"assistant-chat/internal/repository"
	"assistant-chat/pkg/logger"

	"go.uber.org/zap"
)

// ChatService runs one repository operation per call and announces successful writes.
type ChatService struct {
	repo      repository.ChatRepository
	publisher events.Publisher
	logger    *logger.Logger
}

func NewChatService(repo repository.ChatRepository, publisher events.Publisher, l *logger.Logger) *ChatService {
	if l == nil {
		l = logger.NewNop()
	}
	return &ChatService{
		repo:      repo,
		publisher: publisher,
		logger:    l,
	}
}

func (s *ChatService) CreateChat(ctx context.Context, title string) (chat.Chat, error) {
	c, err := s.repo.CreateChat(ctx, title)
	if err != nil {
		return chat.Chat{}, err
	}
	s.logger.Info(ctx, "chat created", zap.Int64("chat_id", c.ID))
	s.publish(ctx, events.EventTypeChatCreated, c.ID, events.ChatPayload{ChatID: c.ID, Title: c.Title})
	return c, nil
}

func (s *ChatService) GetChat(ctx context.Context, chatID int64) (chat.Chat, error) {
	return s.repo.GetChat(ctx, chatID)
}

func (s *ChatService) RenameChat(ctx context.Context, chatID int64, title string) (chat.Chat, error) {
	c, err := s.repo.RenameChat(ctx, chatID, title)
	if err != nil {
		return chat.Chat{}, err
	}
	s.publish(ctx, events.EventTypeChatRenamed, c.ID, events.ChatPayload{ChatID: c.ID, Title: c.Title})
	return c, nil
}

func (s *ChatService) DeleteChat(ctx context.Context, chatID int64) error {
	if err := s.repo.DeleteChat(ctx, chatID); err != nil {
		return err
	}
	s.logger.Info(ctx, "chat deleted", zap.Int64("chat_id", chatID))
	s.publish(ctx, events.EventTypeChatDeleted, chatID, events.ChatPayload{ChatID: chatID})
	return nil
}

func (s *ChatService) ListChats(ctx context.Context) ([]chat.Chat, error) {
	return s.repo.GetAllChats(ctx)
}

func (s *ChatService) SendMessage(ctx context.Context, chatID int64, in chat.NewMessage) (chat.Message, error) {
	msg, err := s.repo.AddMessage(ctx, chatID, in)
	if err != nil {
		return chat.Message{}, err
	}
	payload := events.MessagePayload{
		ChatID:    chatID,
		MessageID: msg.ID,
		Sender:    msg.Sender,
		Text:      msg.Text,
		Timestamp: msg.Timestamp,
	}
	for _, img := range msg.Images {
		payload.Images = append(payload.Images, events.ImagePayload{Position: img.Position, URL: img.URL})
	}
	s.publish(ctx, events.EventTypeMessageCreated, chatID, payload)
	return msg, nil
}

func (s *ChatService) ListMessages(ctx context.Context, chatID int64) ([]chat.Message, error) {
	return s.repo.GetMessages(ctx, chatID)
}

func (s *ChatService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// publish never fails the caller; the write already happened.
func (s *ChatService) publish(ctx context.Context, eventType string, chatID int64, payload any) {
	if s.publisher == nil {
		return
	}
	env, err := events.NewChatEnvelope(eventType, chatID, payload)
	if err != nil {
		s.logger.Error(ctx, "failed to build event", zap.String("event_type", eventType), zap.Error(err))
		return
	}
	data, err := json.Marshal(env)
	if err != nil {
		s.logger.Error(ctx, "failed to encode event", zap.String("event_type", eventType), zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, events.ChatChannel(chatID), data); err != nil {
		s.logger.Error(ctx, "failed to publish event",
			zap.String("event_type", eventType),
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
}
