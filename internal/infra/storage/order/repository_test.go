package order

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
)

func newRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(db), mock
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRepository_Create_WithItems(t *testing.T) {
	repo, mock := newRepository(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO orders (user_id,merchant_id,store_id,status,subtotal,total) VALUES ($1,$2,$3,$4,$5,$6) RETURNING id")).
		WithArgs(int64(42), int64(1), nil, "pending", "40", "40").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(500), now, now))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO order_items (order_id,product_id,product_title,product_image,unit_price,quantity,line_total) VALUES ($1,$2,$3,$4,$5,$6,$7),($8,$9,$10,$11,$12,$13,$14) RETURNING id, created_at")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).
			AddRow(int64(1), now).
			AddRow(int64(2), now))

	order, err := repo.Create(context.Background(), &domain.Order{
		UserID:     42,
		MerchantID: 1,
		Status:     domain.OrderStatusPending,
		Subtotal:   dec("40.00"),
		Total:      dec("40.00"),
		Items: []*domain.OrderItem{
			{ProductID: 10, ProductTitle: "Ball", UnitPrice: dec("10.00"), Quantity: 2, LineTotal: dec("20.00")},
			{ProductID: 11, ProductTitle: "Net", UnitPrice: dec("20.00"), Quantity: 1, LineTotal: dec("20.00")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(500), order.ID)
	assert.Equal(t, int64(1), order.Items[0].ID)
	assert.Equal(t, int64(2), order.Items[1].ID)
	assert.Equal(t, int64(500), order.Items[1].OrderID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_LoadsItems(t *testing.T) {
	repo, mock := newRepository(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM orders WHERE id = $1")).
		WithArgs(int64(500)).
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow(int64(500), int64(42), int64(1), nil, "pending", "20.00", "20.00", now, now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM order_items WHERE order_id IN ($1)")).
		WithArgs(int64(500)).
		WillReturnRows(sqlmock.NewRows(itemColumns).
			AddRow(int64(1), int64(500), int64(10), "Ball", nil, "10.00", 2, "20.00", now))

	order, err := repo.GetByID(context.Background(), 500)
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Ball", order.Items[0].ProductTitle)
	assert.Equal(t, 2, order.ItemCount())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectQuery("FROM orders").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 1)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestRepository_GetByUserID_NoOrdersSkipsItemsQuery(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectQuery("FROM orders WHERE user_id").
		WillReturnRows(sqlmock.NewRows(orderColumns))

	orders, err := repo.GetByUserID(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, orders)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus_Changed(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3")).
		WithArgs("shipped", int64(500), "confirmed").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), 500, domain.OrderStatusConfirmed, domain.OrderStatusShipped)
	assert.ErrorIs(t, err, ErrStatusChanged)
}
