package repository

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"assistant-chat/internal/domain/chat"
	"assistant-chat/pkg/database"
	assistant_errors "assistant-chat/pkg/errors"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
)

// newPostgresRepository connects to TEST_DATABASE_URL and starts from empty tables.
func newPostgresRepository(t *testing.T) *PostgresChatRepository {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	require.NoError(t, db.PingContext(ctx))
	require.NoError(t, database.ApplyMigrations(ctx, db, database.DirectionUp))
	require.NoError(t, database.TruncateAllTables(ctx, db))

	repo := NewPostgresChatRepository(db)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestPostgresChatRepository_SupportScenario(t *testing.T) {
	repo := newPostgresRepository(t)
	req := require.New(t)
	ctx := context.Background()

	c, err := repo.CreateChat(ctx, "Support")
	req.NoError(err)
	req.Equal(int64(1), c.ID)

	m1, err := repo.AddMessage(ctx, c.ID, chat.NewMessage{Sender: "user", Text: "hello", Timestamp: 1000})
	req.NoError(err)
	req.Equal(int64(1), m1.ID)

	m2, err := repo.AddMessage(ctx, c.ID, chat.NewMessage{Sender: "bot", Text: "hi", Timestamp: 1001, ImageURLs: []string{"https://cdn/x.png"}})
	req.NoError(err)
	req.Equal(int64(2), m2.ID)

	msgs, err := repo.GetMessages(ctx, c.ID)
	req.NoError(err)
	req.Equal([]chat.Message{m1, m2}, msgs)

	_, err = repo.AddMessage(ctx, 99, chat.NewMessage{Sender: "user", Text: "?", Timestamp: 1})
	req.ErrorIs(err, assistant_errors.ErrChatNotFound)
}

func TestPostgresChatRepository_ChatLifecycle(t *testing.T) {
	repo := newPostgresRepository(t)
	req := require.New(t)
	ctx := context.Background()

	first, err := repo.CreateChat(ctx, "first")
	req.NoError(err)
	second, err := repo.CreateChat(ctx, "second")
	req.NoError(err)
	req.Equal(first.ID+1, second.ID)

	renamed, err := repo.RenameChat(ctx, first.ID, "renamed")
	req.NoError(err)
	req.Equal("renamed", renamed.Title)

	chats, err := repo.GetAllChats(ctx)
	req.NoError(err)
	req.Len(chats, 2)
	req.Equal(first.ID, chats[0].ID)
	req.Equal("renamed", chats[0].Title)

	req.NoError(repo.DeleteChat(ctx, first.ID))
	req.ErrorIs(repo.DeleteChat(ctx, first.ID), assistant_errors.ErrChatNotFound)
	_, err = repo.GetChat(ctx, first.ID)
	req.ErrorIs(err, assistant_errors.ErrChatNotFound)

	third, err := repo.CreateChat(ctx, "third")
	req.NoError(err)
	req.Equal(second.ID+1, third.ID)
}
