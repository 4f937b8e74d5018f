package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
	"github.com/m04kA/SMC-Marketplace/pkg/dbmetrics"
	"github.com/m04kA/SMC-Marketplace/pkg/psqlbuilder"
)

var orderColumns = []string{
	"id",
	"user_id",
	"merchant_id",
	"store_id",
	"status",
	"subtotal",
	"total",
	"created_at",
	"updated_at",
}

var itemColumns = []string{
	"id",
	"order_id",
	"product_id",
	"product_title",
	"product_image",
	"unit_price",
	"quantity",
	"line_total",
	"created_at",
}

// Repository репозиторий заказов и позиций заказов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория заказов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает заказ вместе с позициями.
// Должен вызываться внутри транзакции: заказ без позиций не должен стать видимым.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("orders").
		Columns("user_id", "merchant_id", "store_id", "status", "subtotal", "total").
		Values(order.UserID, order.MerchantID, order.StoreID, order.Status, order.Subtotal, order.Total).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&order.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	order.CreatedAt = createdAt.Time
	order.UpdatedAt = updatedAt.Time

	if len(order.Items) == 0 {
		return order, nil
	}

	// Все позиции вставляются одним запросом, id возвращаются в порядке VALUES
	itemsBuilder := psqlbuilder.Insert("order_items").
		Columns("order_id", "product_id", "product_title", "product_image", "unit_price", "quantity", "line_total")
	for _, item := range order.Items {
		itemsBuilder = itemsBuilder.Values(
			order.ID,
			item.ProductID,
			item.ProductTitle,
			item.ProductImage,
			item.UnitPrice,
			item.Quantity,
			item.LineTotal,
		)
	}

	query, args, err = itemsBuilder.Suffix("RETURNING id, created_at").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build items insert query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute items insert: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	i := 0
	for rows.Next() {
		if i >= len(order.Items) {
			return nil, fmt.Errorf("%w: Create - more item rows returned than inserted", ErrScanRow)
		}
		var itemCreatedAt sql.NullTime
		if err := rows.Scan(&order.Items[i].ID, &itemCreatedAt); err != nil {
			return nil, fmt.Errorf("%w: Create - scan item id: %w", ErrScanRow, err)
		}
		order.Items[i].OrderID = order.ID
		order.Items[i].CreatedAt = itemCreatedAt.Time
		i++
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: Create - items rows error: %w", ErrScanRow, err)
	}

	return order, nil
}

// GetByID получает заказ с позициями. Внутри транзакции строка заказа блокируется.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(orderColumns...).
		From("orders").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	order, err := scanOrder(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan order: %w", ErrScanRow, err)
	}

	items, err := r.getItems(ctx, []int64{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]

	return order, nil
}

// GetByUserID получает заказы пользователя с позициями, новые первыми
func (r *Repository) GetByUserID(ctx context.Context, userID int64) ([]*domain.Order, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(orderColumns...).
		From("orders").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByUserID - scan row: %w", ErrScanRow, err)
		}
		orders = append(orders, order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - rows error: %w", ErrScanRow, err)
	}

	if len(ids) == 0 {
		return orders, nil
	}

	items, err := r.getItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, order := range orders {
		order.Items = items[order.ID]
	}

	return orders, nil
}

// UpdateStatus меняет статус заказа, только если текущий статус равен from
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.OrderStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("orders").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrStatusChanged
	}

	return nil
}

func (r *Repository) getItems(ctx context.Context, orderIDs []int64) (map[int64][]*domain.OrderItem, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(itemColumns...).
		From("order_items").
		Where(squirrel.Eq{"order_id": orderIDs}).
		OrderBy("order_id ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getItems - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getItems - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	items := make(map[int64][]*domain.OrderItem, len(orderIDs))
	for rows.Next() {
		var item domain.OrderItem
		var createdAt sql.NullTime

		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductTitle,
			&item.ProductImage,
			&item.UnitPrice,
			&item.Quantity,
			&item.LineTotal,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("%w: getItems - scan row: %w", ErrScanRow, err)
		}

		item.CreatedAt = createdAt.Time
		items[item.OrderID] = append(items[item.OrderID], &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getItems - rows error: %w", ErrScanRow, err)
	}

	return items, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.MerchantID,
		&o.StoreID,
		&o.Status,
		&o.Subtotal,
		&o.Total,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	o.CreatedAt = createdAt.Time
	o.UpdatedAt = updatedAt.Time

	return &o, nil
}
