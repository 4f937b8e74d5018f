package cart

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

var cartColumns = []string{"id", "user_id", "status", "created_at", "updated_at"}

var itemColumns = []string{
	"id",
	"cart_id",
	"product_id",
	"quantity",
	"unit_price",
	"created_at",
	"updated_at",
}

// Repository репозиторий корзин и их позиций
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория корзин
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// EnsureActive возвращает активную корзину пользователя, создавая ее при отсутствии.
// Вставка опирается на частичный уникальный индекс uq_carts_active_user:
// при конкурентном первом обращении одна вставка проходит, вторая ничего не делает,
// и обе читают одну и ту же строку.
func (r *Repository) EnsureActive(ctx context.Context, userID int64) (*domain.Cart, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("carts").
		Columns("user_id", "status").
		Values(userID, domain.CartStatusActive).
		Suffix("ON CONFLICT (user_id) WHERE status = 'active' DO NOTHING").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: EnsureActive - build insert query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: EnsureActive - execute insert: %w", ErrExecQuery, err)
	}

	return r.GetActive(ctx, userID)
}

// GetActive получает активную корзину пользователя.
// Внутри транзакции строка корзины блокируется (FOR UPDATE).
func (r *Repository) GetActive(ctx context.Context, userID int64) (*domain.Cart, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(cartColumns...).
		From("carts").
		Where(squirrel.Eq{"user_id": userID, "status": domain.CartStatusActive})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActive - build select query: %w", ErrBuildQuery, err)
	}

	var c domain.Cart
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&c.ID,
		&c.UserID,
		&c.Status,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetActive - scan cart: %w", ErrScanRow, err)
	}

	c.CreatedAt = createdAt.Time
	c.UpdatedAt = updatedAt.Time

	return &c, nil
}

// GetItems получает позиции корзины в порядке добавления.
// Внутри транзакции строки блокируются (FOR UPDATE).
func (r *Repository) GetItems(ctx context.Context, cartID int64) ([]*domain.CartItem, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(itemColumns...).
		From("cart_items").
		Where(squirrel.Eq{"cart_id": cartID}).
		OrderBy("id ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetItems - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetItems - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	items := make([]*domain.CartItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetItems - scan row: %w", ErrScanRow, err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetItems - rows error: %w", ErrScanRow, err)
	}

	return items, nil
}

// GetItem получает позицию корзины по товару
func (r *Repository) GetItem(ctx context.Context, cartID, productID int64) (*domain.CartItem, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(itemColumns...).
		From("cart_items").
		Where(squirrel.Eq{"cart_id": cartID, "product_id": productID})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetItem - build select query: %w", ErrBuildQuery, err)
	}

	item, err := scanItem(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetItem - scan item: %w", ErrScanRow, err)
	}

	return item, nil
}

// CreateItem добавляет позицию в корзину
func (r *Repository) CreateItem(ctx context.Context, item *domain.CartItem) (*domain.CartItem, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("cart_items").
		Columns("cart_id", "product_id", "quantity", "unit_price").
		Values(item.CartID, item.ProductID, item.Quantity, item.UnitPrice).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateItem - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&item.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: CreateItem - execute insert: %w", ErrExecQuery, err)
	}

	item.CreatedAt = createdAt.Time
	item.UpdatedAt = updatedAt.Time

	return item, nil
}

// UpdateItem обновляет количество и цену позиции
func (r *Repository) UpdateItem(ctx context.Context, item *domain.CartItem) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("cart_items").
		Set("quantity", item.Quantity).
		Set("unit_price", item.UnitPrice).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": item.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateItem - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateItem - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateItem - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrItemNotFound
	}

	return nil
}

// DeleteItem удаляет позицию корзины по товару
func (r *Repository) DeleteItem(ctx context.Context, cartID, productID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("cart_items").
		Where(squirrel.Eq{"cart_id": cartID, "product_id": productID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteItem - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteItem - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteItem - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrItemNotFound
	}

	return nil
}

// DeleteItems удаляет все позиции корзины
func (r *Repository) DeleteItems(ctx context.Context, cartID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("cart_items").
		Where(squirrel.Eq{"cart_id": cartID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteItems - build delete query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DeleteItems - execute delete: %w", ErrExecQuery, err)
	}

	return nil
}

// SetStatus меняет статус корзины
func (r *Repository) SetStatus(ctx context.Context, cartID int64, status domain.CartStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("carts").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": cartID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetStatus - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetStatus - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetStatus - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrCartNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row rowScanner) (*domain.CartItem, error) {
	var item domain.CartItem
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&item.ID,
		&item.CartID,
		&item.ProductID,
		&item.Quantity,
		&item.UnitPrice,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.CreatedAt = createdAt.Time
	item.UpdatedAt = updatedAt.Time

	return &item, nil
}
