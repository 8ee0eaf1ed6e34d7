package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"assistant-chat/internal/domain/chat"
	assistant_errors "assistant-chat/pkg/errors"
)

var _ ChatRepository = (*MemoryChatRepository)(nil)

type memoryChat struct {
	chat          chat.Chat
	nextMessageID int64
}

// MemoryChatRepository keeps all state in process memory. A single RWMutex guards
// the maps and counters so ids stay unique and gap-free under concurrent requests.
type MemoryChatRepository struct {
	mu         sync.RWMutex
	chats      map[int64]*memoryChat
	nextChatID int64
	now        func() time.Time
}

func NewMemoryChatRepository() *MemoryChatRepository {
	return &MemoryChatRepository{
		chats:      make(map[int64]*memoryChat),
		nextChatID: 1,
		now:        time.Now,
	}
}

func (r *MemoryChatRepository) CreateChat(ctx context.Context, title string) (chat.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	c := &memoryChat{
		chat: chat.Chat{
			ID:        r.nextChatID,
			Title:     title,
			Messages:  []chat.Message{},
			CreatedAt: now,
			UpdatedAt: now,
		},
		nextMessageID: 1,
	}
	r.chats[c.chat.ID] = c
	r.nextChatID++
	return c.chat.Clone(), nil
}

func (r *MemoryChatRepository) GetChat(ctx context.Context, chatID int64) (chat.Chat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.chats[chatID]
	if !ok {
		return chat.Chat{}, assistant_errors.ErrChatNotFound
	}
	return c.chat.Clone(), nil
}

func (r *MemoryChatRepository) RenameChat(ctx context.Context, chatID int64, title string) (chat.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.chats[chatID]
	if !ok {
		return chat.Chat{}, assistant_errors.ErrChatNotFound
	}
	c.chat.Title = title
	c.chat.UpdatedAt = r.now().UTC()
	return c.chat.Clone(), nil
}

// DeleteChat drops the chat and its messages. The id counter is not rewound.
func (r *MemoryChatRepository) DeleteChat(ctx context.Context, chatID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.chats[chatID]; !ok {
		return assistant_errors.ErrChatNotFound
	}
	delete(r.chats, chatID)
	return nil
}

func (r *MemoryChatRepository) GetAllChats(ctx context.Context) ([]chat.Chat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	chats := make([]chat.Chat, 0, len(r.chats))
	for _, c := range r.chats {
		summary := c.chat
		summary.Messages = nil
		chats = append(chats, summary)
	}
	sort.Slice(chats, func(i, j int) bool { return chats[i].ID < chats[j].ID })
	return chats, nil
}

func (r *MemoryChatRepository) AddMessage(ctx context.Context, chatID int64, in chat.NewMessage) (chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.chats[chatID]
	if !ok {
		return chat.Message{}, assistant_errors.ErrChatNotFound
	}

	msg := chat.Message{
		ID:        c.nextMessageID,
		ChatID:    chatID,
		Sender:    in.Sender,
		Text:      in.Text,
		Timestamp: in.Timestamp,
		Images:    chat.BuildImages(in.ImageURLs),
	}
	c.nextMessageID++
	c.chat.Messages = append(c.chat.Messages, msg)
	c.chat.UpdatedAt = r.now().UTC()
	return msg.Clone(), nil
}

func (r *MemoryChatRepository) GetMessages(ctx context.Context, chatID int64) ([]chat.Message, error) {
	c, err := r.GetChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	return c.Messages, nil
}

func (r *MemoryChatRepository) Ping(ctx context.Context) error {
	return nil
}

func (r *MemoryChatRepository) Close() error {
	return nil
}
