package repository

import (
	"context"
	"database/sql"
	"fmt"

	"assistant-chat/internal/domain/chat"
	assistant_errors "assistant-chat/pkg/errors"
)

var _ ChatRepository = (*PostgresChatRepository)(nil)

// PostgresChatRepository persists chats in the chats/messages/message_images tables.
// Message ids come from chats.next_message_id, bumped in the same transaction as the insert.
type PostgresChatRepository struct {
	db *sql.DB
}

func NewPostgresChatRepository(db *sql.DB) *PostgresChatRepository {
	return &PostgresChatRepository{db: db}
}

func (r *PostgresChatRepository) CreateChat(ctx context.Context, title string) (chat.Chat, error) {
	c := chat.Chat{Messages: []chat.Message{}}
	err := r.db.QueryRowContext(ctx, `
        INSERT INTO chats (title, created_at, updated_at)
        VALUES ($1, NOW(), NOW())
        RETURNING chat_id, title, created_at, updated_at
    `, title).Scan(&c.ID, &c.Title, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return chat.Chat{}, fmt.Errorf("create chat: %w", err)
	}
	return c, nil
}

func (r *PostgresChatRepository) GetChat(ctx context.Context, chatID int64) (chat.Chat, error) {
	c, err := getChatRow(ctx, r.db, chatID)
	if err != nil {
		return chat.Chat{}, err
	}
	c.Messages, err = listMessages(ctx, r.db, chatID)
	if err != nil {
		return chat.Chat{}, err
	}
	return c, nil
}

func (r *PostgresChatRepository) RenameChat(ctx context.Context, chatID int64, title string) (chat.Chat, error) {
	var c chat.Chat
	err := r.db.QueryRowContext(ctx, `
        UPDATE chats
        SET title = $2, updated_at = NOW()
        WHERE chat_id = $1
        RETURNING chat_id, title, created_at, updated_at
    `, chatID, title).Scan(&c.ID, &c.Title, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return chat.Chat{}, mapPgError(err)
	}
	return c, nil
}

// DeleteChat relies on ON DELETE CASCADE for messages and images.
func (r *PostgresChatRepository) DeleteChat(ctx context.Context, chatID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM chats WHERE chat_id = $1`, chatID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return assistant_errors.ErrChatNotFound
	}
	return nil
}

func (r *PostgresChatRepository) GetAllChats(ctx context.Context) ([]chat.Chat, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT chat_id, title, created_at, updated_at
        FROM chats
        ORDER BY chat_id ASC
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	chats := []chat.Chat{}
	for rows.Next() {
		var c chat.Chat
		if err := rows.Scan(&c.ID, &c.Title, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		chats = append(chats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return chats, nil
}

func (r *PostgresChatRepository) AddMessage(ctx context.Context, chatID int64, in chat.NewMessage) (chat.Message, error) {
	msg := chat.Message{
		ChatID:    chatID,
		Sender:    in.Sender,
		Text:      in.Text,
		Timestamp: in.Timestamp,
		Images:    chat.BuildImages(in.ImageURLs),
	}

	err := WithTx(ctx, r.db, func(tx DBTX) error {
		// The row lock taken here serializes appends to the same chat.
		if err := tx.QueryRowContext(ctx, `
            UPDATE chats
            SET next_message_id = next_message_id + 1, updated_at = NOW()
            WHERE chat_id = $1
            RETURNING next_message_id - 1
        `, chatID).Scan(&msg.ID); err != nil {
			return mapPgError(err)
		}

		if _, err := tx.ExecContext(ctx, `
            INSERT INTO messages (chat_id, message_id, sender, text, timestamp, created_at)
            VALUES ($1, $2, $3, $4, $5, NOW())
        `, chatID, msg.ID, msg.Sender, msg.Text, msg.Timestamp); err != nil {
			return mapPgError(err)
		}

		if len(msg.Images) == 0 {
			return nil
		}
		args := make([]interface{}, 0, len(msg.Images)*4)
		for _, img := range msg.Images {
			args = append(args, chatID, msg.ID, img.Position, img.URL)
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO message_images (chat_id, message_id, position, url) VALUES `+buildValueRows(len(msg.Images), 4),
			args...)
		return mapPgError(err)
	})
	if err != nil {
		return chat.Message{}, err
	}
	return msg, nil
}

func (r *PostgresChatRepository) GetMessages(ctx context.Context, chatID int64) ([]chat.Message, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM chats WHERE chat_id = $1)`, chatID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, assistant_errors.ErrChatNotFound
	}
	return listMessages(ctx, r.db, chatID)
}

func (r *PostgresChatRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *PostgresChatRepository) Close() error {
	return r.db.Close()
}

func getChatRow(ctx context.Context, db DBTX, chatID int64) (chat.Chat, error) {
	var c chat.Chat
	err := db.QueryRowContext(ctx, `
        SELECT chat_id, title, created_at, updated_at
        FROM chats
        WHERE chat_id = $1
    `, chatID).Scan(&c.ID, &c.Title, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return chat.Chat{}, mapPgError(err)
	}
	return c, nil
}

func listMessages(ctx context.Context, db DBTX, chatID int64) ([]chat.Message, error) {
	rows, err := db.QueryContext(ctx, `
        SELECT message_id, sender, text, timestamp
        FROM messages
        WHERE chat_id = $1
        ORDER BY message_id ASC
    `, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []chat.Message{}
	index := make(map[int64]int)
	for rows.Next() {
		m := chat.Message{ChatID: chatID}
		if err := rows.Scan(&m.ID, &m.Sender, &m.Text, &m.Timestamp); err != nil {
			return nil, err
		}
		index[m.ID] = len(messages)
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return messages, nil
	}

	imgRows, err := db.QueryContext(ctx, `
        SELECT message_id, position, url
        FROM message_images
        WHERE chat_id = $1
        ORDER BY message_id ASC, position ASC
    `, chatID)
	if err != nil {
		return nil, err
	}
	defer imgRows.Close()

	for imgRows.Next() {
		var messageID int64
		var img chat.Image
		if err := imgRows.Scan(&messageID, &img.Position, &img.URL); err != nil {
			return nil, err
		}
		if i, ok := index[messageID]; ok {
			messages[i].Images = append(messages[i].Images, img)
		}
	}
	return messages, imgRows.Err()
}
