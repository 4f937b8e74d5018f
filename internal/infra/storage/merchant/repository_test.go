package merchant

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_IsOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery("FROM merchants WHERE id = \\$1").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "name"}).AddRow(int64(1), int64(42), "Sport LLC"))
	mock.ExpectQuery("FROM merchants WHERE id = \\$1").
		WithArgs(int64(2)).
		WillReturnError(sql.ErrNoRows)

	ok, err := repo.IsOwner(context.Background(), 1, 42)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.IsOwner(context.Background(), 2, 42)
	require.NoError(t, err)
	assert.False(t, ok)
}
