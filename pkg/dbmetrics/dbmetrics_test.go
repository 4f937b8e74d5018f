package dbmetrics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorderStub struct {
	mu     sync.Mutex
	ops    []string
	errors int
}

func (r *recorderStub) ObserveDBQuery(operation string, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, operation)
	if err != nil {
		r.errors++
	}
}

func (r *recorderStub) SetDBConnections(int, int, int) {}

func TestOperation(t *testing.T) {
	assert.Equal(t, "SELECT", Operation("  select id from fields"))
	assert.Equal(t, "UPDATE", Operation("UPDATE products SET quantity = quantity - $1"))
	assert.Equal(t, "UNKNOWN", Operation(""))
}

func TestGetExecutor_PrefersTransactionFromContext(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	wrapped := Wrap(db)
	ctx := context.Background()
	assert.False(t, IsInTransaction(ctx))
	assert.Same(t, wrapped, GetExecutor(ctx, wrapped))

	mock.ExpectBegin()
	tx, err := wrapped.BeginTx(ctx, nil)
	require.NoError(t, err)

	txCtx := WithTx(ctx, tx)
	assert.True(t, IsInTransaction(txCtx))
	assert.Same(t, tx, GetExecutor(txCtx, wrapped))

	mock.ExpectRollback()
	require.NoError(t, tx.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_RecordsQueries(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rec := &recorderStub{}
	wrapped := &DB{db: db, recorder: rec}

	mock.ExpectExec("UPDATE products").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM cart_items").WillReturnError(errors.New("boom"))

	_, err = wrapped.ExecContext(context.Background(), "UPDATE products SET quantity = 1")
	require.NoError(t, err)
	_, err = wrapped.ExecContext(context.Background(), "DELETE FROM cart_items WHERE cart_id = 1")
	require.Error(t, err)

	assert.Equal(t, []string{"UPDATE", "DELETE"}, rec.ops)
	assert.Equal(t, 1, rec.errors)
	require.NoError(t, mock.ExpectationsWereMet())
}
