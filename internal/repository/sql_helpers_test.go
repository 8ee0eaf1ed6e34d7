package repository

import (
	"database/sql"
	"errors"
	"testing"

	assistant_errors "assistant-chat/pkg/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestBuildValueRows(t *testing.T) {
	require.Equal(t, "($1,$2,$3)", buildValueRows(1, 3))
	require.Equal(t, "($1,$2),($3,$4),($5,$6)", buildValueRows(3, 2))
	require.Equal(t, "", buildPlaceholders(1, 0))
}

func TestMapPgError(t *testing.T) {
	req := require.New(t)
	req.NoError(mapPgError(nil))
	req.ErrorIs(mapPgError(sql.ErrNoRows), assistant_errors.ErrChatNotFound)
	req.ErrorIs(mapPgError(&pgconn.PgError{Code: pgForeignKeyViolation}), assistant_errors.ErrChatNotFound)

	boom := errors.New("boom")
	req.Equal(boom, mapPgError(boom))
}
