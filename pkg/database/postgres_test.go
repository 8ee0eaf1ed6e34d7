package database

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMigrationNames(t *testing.T) {
	req := require.New(t)

	up, err := MigrationNames(DirectionUp)
	req.NoError(err)
	req.Equal([]string{"001_chats.up.sql", "002_messages.up.sql"}, up)

	down, err := MigrationNames(DirectionDown)
	req.NoError(err)
	req.Equal([]string{"002_messages.down.sql", "001_chats.down.sql"}, down)
}
