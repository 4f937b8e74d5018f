package subscription

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
	"github.com/m04kA/SMC-Marketplace/pkg/dbmetrics"
	"github.com/m04kA/SMC-Marketplace/pkg/pgerr"
	"github.com/m04kA/SMC-Marketplace/pkg/psqlbuilder"
)

var subscriptionColumns = []string{
	"id",
	"field_id",
	"user_id",
	"type",
	"plan_id",
	"price",
	"currency",
	"start_date",
	"end_date",
	"status",
	"created_at",
	"updated_at",
}

var planColumns = []string{
	"id",
	"field_id",
	"type",
	"title",
	"description",
	"price",
	"currency",
	"is_active",
	"is_public",
	"created_at",
	"updated_at",
}

// Repository репозиторий подписок на поля и планов подписок
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория подписок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ExpireOverdue переводит в expired активные подписки пользователя, у которых end_date < today.
// Если fieldID задан, затрагиваются только подписки на это поле.
// Возвращает количество обновленных строк.
func (r *Repository) ExpireOverdue(ctx context.Context, userID int64, fieldID *int64, today time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("field_subscriptions").
		Set("status", domain.SubscriptionStatusExpired).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"user_id": userID, "status": domain.SubscriptionStatusActive}).
		Where(squirrel.Lt{"end_date": today})

	if fieldID != nil {
		updateBuilder = updateBuilder.Where(squirrel.Eq{"field_id": *fieldID})
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: ExpireOverdue - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: ExpireOverdue - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: ExpireOverdue - get rows affected: %w", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

// GetActiveByFieldAndUser получает активные подписки пользователя на поле,
// последняя по end_date идет первой. Внутри транзакции строки блокируются.
func (r *Repository) GetActiveByFieldAndUser(ctx context.Context, fieldID, userID int64) ([]*domain.FieldSubscription, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(subscriptionColumns...).
		From("field_subscriptions").
		Where(squirrel.Eq{
			"field_id": fieldID,
			"user_id":  userID,
			"status":   domain.SubscriptionStatusActive,
		}).
		OrderBy("end_date DESC", "id DESC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByFieldAndUser - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByFieldAndUser - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSubscriptions(rows)
}

// GetByUserID получает все подписки пользователя, новые первыми
func (r *Repository) GetByUserID(ctx context.Context, userID int64) ([]*domain.FieldSubscription, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(subscriptionColumns...).
		From("field_subscriptions").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("start_date DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSubscriptions(rows)
}

// GetByID получает подписку по ID. Внутри транзакции строка блокируется.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.FieldSubscription, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(subscriptionColumns...).
		From("field_subscriptions").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	sub, err := scanSubscription(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan subscription: %w", ErrScanRow, err)
	}

	return sub, nil
}

// Create создает подписку
func (r *Repository) Create(ctx context.Context, sub *domain.FieldSubscription) (*domain.FieldSubscription, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("field_subscriptions").
		Columns(
			"field_id",
			"user_id",
			"type",
			"plan_id",
			"price",
			"currency",
			"start_date",
			"end_date",
			"status",
		).
		Values(
			sub.FieldID,
			sub.UserID,
			sub.Type,
			sub.PlanID,
			sub.Price,
			sub.Currency,
			sub.StartDate,
			sub.EndDate,
			sub.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&sub.ID, &createdAt, &updatedAt)
	if pgerr.IsExclusionViolation(err) {
		return nil, ErrPeriodOverlap
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	sub.CreatedAt = createdAt.Time
	sub.UpdatedAt = updatedAt.Time

	return sub, nil
}

// UpdateStatus меняет статус подписки, только если текущий статус равен from
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.SubscriptionStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("field_subscriptions").
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

// GetActivePublicPlan получает активный публичный план для пары (поле, тип)
func (r *Repository) GetActivePublicPlan(ctx context.Context, fieldID int64, subType domain.SubscriptionType) (*domain.FieldSubscriptionPlan, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(planColumns...).
		From("field_subscription_plans").
		Where(squirrel.Eq{
			"field_id":  fieldID,
			"type":      subType,
			"is_active": true,
			"is_public": true,
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActivePublicPlan - build select query: %w", ErrBuildQuery, err)
	}

	var plan domain.FieldSubscriptionPlan
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&plan.ID,
		&plan.FieldID,
		&plan.Type,
		&plan.Title,
		&plan.Description,
		&plan.Price,
		&plan.Currency,
		&plan.IsActive,
		&plan.IsPublic,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetActivePublicPlan - scan plan: %w", ErrScanRow, err)
	}

	plan.CreatedAt = createdAt.Time
	plan.UpdatedAt = updatedAt.Time

	return &plan, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSubscription(row rowScanner) (*domain.FieldSubscription, error) {
	var sub domain.FieldSubscription
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&sub.ID,
		&sub.FieldID,
		&sub.UserID,
		&sub.Type,
		&sub.PlanID,
		&sub.Price,
		&sub.Currency,
		&sub.StartDate,
		&sub.EndDate,
		&sub.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	sub.CreatedAt = createdAt.Time
	sub.UpdatedAt = updatedAt.Time

	return &sub, nil
}

func scanSubscriptions(rows *sql.Rows) ([]*domain.FieldSubscription, error) {
	subs := make([]*domain.FieldSubscription, 0)

	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSubscriptions - scan row: %w", ErrScanRow, err)
		}
		subs = append(subs, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSubscriptions - rows error: %w", ErrScanRow, err)
	}

	return subs, nil
}
