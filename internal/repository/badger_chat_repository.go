package repository

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"assistant-chat/internal/domain/chat"
	assistant_errors "assistant-chat/pkg/errors"

	"github.com/dgraph-io/badger/v4"
)

var _ ChatRepository = (*BadgerChatRepository)(nil)

var nextChatIDKey = []byte("meta:next_chat_id")

// BadgerChatRepository stores chats on local disk.
// Keys are zero padded so prefix scans come back in id order:
//
//	chat:{chat_id}              chat record with its next message id
//	msg:{chat_id}:{message_id}  message record
type BadgerChatRepository struct {
	db *badger.DB
	// writes are serialized so counter bumps never hit badger.ErrConflict
	mu  sync.Mutex
	now func() time.Time
}

type badgerChat struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	NextMessageID int64     `json:"next_message_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type badgerImage struct {
	Position int    `json:"position"`
	URL      string `json:"url"`
}

type badgerMessage struct {
	ID        int64         `json:"id"`
	ChatID    int64         `json:"chat_id"`
	Sender    string        `json:"sender"`
	Text      string        `json:"text"`
	Timestamp int64         `json:"timestamp"`
	Images    []badgerImage `json:"images,omitempty"`
}

// OpenBadger opens (or creates) the database directory.
func OpenBadger(path string) (*badger.DB, error) {
	db, err := badger.Open(badger.DefaultOptions(path).WithLoggingLevel(badger.ERROR))
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %s: %w", path, err)
	}
	return db, nil
}

func NewBadgerChatRepository(db *badger.DB) *BadgerChatRepository {
	return &BadgerChatRepository{db: db, now: time.Now}
}

func chatKey(chatID int64) []byte {
	return []byte(fmt.Sprintf("chat:%020d", chatID))
}

func messagePrefix(chatID int64) []byte {
	return []byte(fmt.Sprintf("msg:%020d:", chatID))
}

func messageKey(chatID, messageID int64) []byte {
	return []byte(fmt.Sprintf("msg:%020d:%020d", chatID, messageID))
}

func (r *BadgerChatRepository) CreateChat(ctx context.Context, title string) (chat.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	record := badgerChat{Title: title, NextMessageID: 1, CreatedAt: now, UpdatedAt: now}
	err := r.db.Update(func(txn *badger.Txn) error {
		id, err := readCounter(txn, nextChatIDKey)
		if err != nil {
			return err
		}
		record.ID = id
		if err := writeCounter(txn, nextChatIDKey, id+1); err != nil {
			return err
		}
		return putJSON(txn, chatKey(id), record)
	})
	if err != nil {
		return chat.Chat{}, fmt.Errorf("create chat: %w", err)
	}
	c := record.toDomain()
	c.Messages = []chat.Message{}
	return c, nil
}

func (r *BadgerChatRepository) GetChat(ctx context.Context, chatID int64) (chat.Chat, error) {
	var c chat.Chat
	err := r.db.View(func(txn *badger.Txn) error {
		record, err := getChatRecord(txn, chatID)
		if err != nil {
			return err
		}
		c = record.toDomain()
		c.Messages, err = scanMessages(txn, chatID)
		return err
	})
	if err != nil {
		return chat.Chat{}, err
	}
	return c, nil
}

func (r *BadgerChatRepository) RenameChat(ctx context.Context, chatID int64, title string) (chat.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var record badgerChat
	err := r.db.Update(func(txn *badger.Txn) error {
		var err error
		record, err = getChatRecord(txn, chatID)
		if err != nil {
			return err
		}
		record.Title = title
		record.UpdatedAt = r.now().UTC()
		return putJSON(txn, chatKey(chatID), record)
	})
	if err != nil {
		return chat.Chat{}, err
	}
	return record.toDomain(), nil
}

// DeleteChat removes the chat record first, so the chat is gone even if clearing its
// messages fails midway. Messages go through a WriteBatch, which has no per-transaction size cap.
func (r *BadgerChatRepository) DeleteChat(ctx context.Context, chatID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.db.Update(func(txn *badger.Txn) error {
		if _, err := getChatRecord(txn, chatID); err != nil {
			return err
		}
		return txn.Delete(chatKey(chatID))
	})
	if err != nil {
		return err
	}

	var keys [][]byte
	err = r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: messagePrefix(chatID)})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("list messages of chat %d: %w", chatID, err)
	}

	wb := r.db.NewWriteBatch()
	defer wb.Cancel()
	for _, key := range keys {
		if err := wb.Delete(key); err != nil {
			return fmt.Errorf("delete messages of chat %d: %w", chatID, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("delete messages of chat %d: %w", chatID, err)
	}
	return nil
}

func (r *BadgerChatRepository) GetAllChats(ctx context.Context) ([]chat.Chat, error) {
	chats := []chat.Chat{}
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: []byte("chat:"), PrefetchValues: true, PrefetchSize: 100})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			var record badgerChat
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			}); err != nil {
				return err
			}
			chats = append(chats, record.toDomain())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return chats, nil
}

func (r *BadgerChatRepository) AddMessage(ctx context.Context, chatID int64, in chat.NewMessage) (chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg := chat.Message{
		ChatID:    chatID,
		Sender:    in.Sender,
		Text:      in.Text,
		Timestamp: in.Timestamp,
		Images:    chat.BuildImages(in.ImageURLs),
	}
	err := r.db.Update(func(txn *badger.Txn) error {
		record, err := getChatRecord(txn, chatID)
		if err != nil {
			return err
		}
		msg.ID = record.NextMessageID
		record.NextMessageID++
		record.UpdatedAt = r.now().UTC()
		if err := putJSON(txn, chatKey(chatID), record); err != nil {
			return err
		}
		return putJSON(txn, messageKey(chatID, msg.ID), fromDomainMessage(msg))
	})
	if err != nil {
		return chat.Message{}, err
	}
	return msg, nil
}

func (r *BadgerChatRepository) GetMessages(ctx context.Context, chatID int64) ([]chat.Message, error) {
	var messages []chat.Message
	err := r.db.View(func(txn *badger.Txn) error {
		if _, err := getChatRecord(txn, chatID); err != nil {
			return err
		}
		var err error
		messages, err = scanMessages(txn, chatID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *BadgerChatRepository) Ping(ctx context.Context) error {
	if r.db.IsClosed() {
		return assistant_errors.ErrServiceUnavailable
	}
	return nil
}

func (r *BadgerChatRepository) Close() error {
	return r.db.Close()
}

func getChatRecord(txn *badger.Txn, chatID int64) (badgerChat, error) {
	var record badgerChat
	item, err := txn.Get(chatKey(chatID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return record, assistant_errors.ErrChatNotFound
	}
	if err != nil {
		return record, err
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &record)
	})
	return record, err
}

func scanMessages(txn *badger.Txn, chatID int64) ([]chat.Message, error) {
	messages := []chat.Message{}
	it := txn.NewIterator(badger.IteratorOptions{Prefix: messagePrefix(chatID), PrefetchValues: true, PrefetchSize: 100})
	defer it.Close()
	for it.Rewind(); it.Valid(); it.Next() {
		var record badgerMessage
		if err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		}); err != nil {
			return nil, err
		}
		messages = append(messages, record.toDomain())
	}
	return messages, nil
}

// readCounter returns the stored value, or 1 when the counter was never written.
func readCounter(txn *badger.Txn, key []byte) (int64, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	var value int64
	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return fmt.Errorf("corrupt counter %s", key)
		}
		value = int64(binary.BigEndian.Uint64(val))
		return nil
	})
	return value, err
}

func writeCounter(txn *badger.Txn, key []byte, value int64) error {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(value))
	return txn.Set(key, buf)
}

func putJSON(txn *badger.Txn, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

func (b badgerChat) toDomain() chat.Chat {
	return chat.Chat{
		ID:        b.ID,
		Title:     b.Title,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func fromDomainMessage(m chat.Message) badgerMessage {
	out := badgerMessage{
		ID:        m.ID,
		ChatID:    m.ChatID,
		Sender:    m.Sender,
		Text:      m.Text,
		Timestamp: m.Timestamp,
	}
	for _, img := range m.Images {
		out.Images = append(out.Images, badgerImage{Position: img.Position, URL: img.URL})
	}
	return out
}

func (b badgerMessage) toDomain() chat.Message {
	m := chat.Message{
		ID:        b.ID,
		ChatID:    b.ChatID,
		Sender:    b.Sender,
		Text:      b.Text,
		Timestamp: b.Timestamp,
	}
	for _, img := range b.Images {
		m.Images = append(m.Images, chat.Image{Position: img.Position, URL: img.URL})
	}
	return m
}
