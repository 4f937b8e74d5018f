package field

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

var fieldColumns = []string{
	"id",
	"merchant_id",
	"category_id",
	"title",
	"address",
	"city",
	"latitude",
	"longitude",
	"price_per_hour",
	"status",
	"created_at",
	"updated_at",
}

var availabilityColumns = []string{
	"id",
	"field_id",
	"day_of_week",
	"start_time",
	"end_time",
	"is_active",
	"created_at",
	"updated_at",
}

var closureColumns = []string{
	"id",
	"field_id",
	"closure_date",
	"reason",
	"created_at",
}

// Repository репозиторий полей, их расписания и закрытий
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория полей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает поле по ID без блокировки
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Field, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate получает поле и блокирует строку до конца транзакции.
// Вне транзакции блокировка не ставится.
// Используется как точка сериализации для бронирований и подписок одного поля.
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Field, error) {
	return r.getByID(ctx, id, dbmetrics.IsInTransaction(ctx))
}

func (r *Repository) getByID(ctx context.Context, id int64, forUpdate bool) (*domain.Field, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(fieldColumns...).
		From("fields").
		Where(squirrel.Eq{"id": id})

	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	var f domain.Field
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&f.ID,
		&f.MerchantID,
		&f.CategoryID,
		&f.Title,
		&f.Address,
		&f.City,
		&f.Latitude,
		&f.Longitude,
		&f.PricePerHour,
		&f.Status,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFieldNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan field: %w", ErrScanRow, err)
	}

	f.CreatedAt = createdAt.Time
	f.UpdatedAt = updatedAt.Time

	return &f, nil
}

// GetActiveAvailability получает все активные окна доступности поля
// Окна отсортированы по дню недели и времени начала
func (r *Repository) GetActiveAvailability(ctx context.Context, fieldID int64) ([]*domain.FieldAvailability, error) {
	return r.selectAvailability(ctx, "GetActiveAvailability", squirrel.Eq{"field_id": fieldID, "is_active": true})
}

// GetActiveAvailabilityByDay получает активные окна доступности поля на день недели
func (r *Repository) GetActiveAvailabilityByDay(ctx context.Context, fieldID int64, dayOfWeek int) ([]*domain.FieldAvailability, error) {
	return r.selectAvailability(ctx, "GetActiveAvailabilityByDay", squirrel.Eq{
		"field_id":    fieldID,
		"day_of_week": dayOfWeek,
		"is_active":   true,
	})
}

func (r *Repository) selectAvailability(ctx context.Context, op string, where squirrel.Eq) ([]*domain.FieldAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(availabilityColumns...).
		From("field_availability").
		Where(where).
		OrderBy("day_of_week ASC", "start_time ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %w", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	windows := make([]*domain.FieldAvailability, 0)
	for rows.Next() {
		var a domain.FieldAvailability
		var createdAt, updatedAt sql.NullTime

		if err := rows.Scan(
			&a.ID,
			&a.FieldID,
			&a.DayOfWeek,
			&a.StartTime,
			&a.EndTime,
			&a.IsActive,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %w", ErrScanRow, op, err)
		}

		a.CreatedAt = createdAt.Time
		a.UpdatedAt = updatedAt.Time
		windows = append(windows, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return windows, nil
}

// CreateAvailability добавляет окно доступности
func (r *Repository) CreateAvailability(ctx context.Context, a *domain.FieldAvailability) (*domain.FieldAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("field_availability").
		Columns("field_id", "day_of_week", "start_time", "end_time", "is_active").
		Values(a.FieldID, a.DayOfWeek, a.StartTime, a.EndTime, a.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateAvailability - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&a.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: CreateAvailability - execute insert: %w", ErrExecQuery, err)
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return a, nil
}

// DeactivateAvailability выключает окно доступности поля
func (r *Repository) DeactivateAvailability(ctx context.Context, fieldID, availabilityID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("field_availability").
		Set("is_active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": availabilityID, "field_id": fieldID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeactivateAvailability - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeactivateAvailability - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeactivateAvailability - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAvailabilityNotFound
	}

	return nil
}

// GetClosureByDate получает закрытие поля на конкретную дату
func (r *Repository) GetClosureByDate(ctx context.Context, fieldID int64, date time.Time) (*domain.FieldClosure, error) {
	closures, err := r.GetClosuresInRange(ctx, fieldID, date, date)
	if err != nil {
		return nil, err
	}
	if len(closures) == 0 {
		return nil, ErrClosureNotFound
	}
	return closures[0], nil
}

// GetClosuresInRange получает закрытия поля в диапазоне дат [from, to] включительно
func (r *Repository) GetClosuresInRange(ctx context.Context, fieldID int64, from, to time.Time) ([]*domain.FieldClosure, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(closureColumns...).
		From("field_closures").
		Where(squirrel.Eq{"field_id": fieldID}).
		Where(squirrel.GtOrEq{"closure_date": from}).
		Where(squirrel.LtOrEq{"closure_date": to}).
		OrderBy("closure_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetClosuresInRange - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetClosuresInRange - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	closures := make([]*domain.FieldClosure, 0)
	for rows.Next() {
		var c domain.FieldClosure
		var createdAt sql.NullTime

		if err := rows.Scan(&c.ID, &c.FieldID, &c.ClosureDate, &c.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: GetClosuresInRange - scan row: %w", ErrScanRow, err)
		}

		c.CreatedAt = createdAt.Time
		closures = append(closures, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetClosuresInRange - rows error: %w", ErrScanRow, err)
	}

	return closures, nil
}

// CreateClosure закрывает поле на дату
func (r *Repository) CreateClosure(ctx context.Context, c *domain.FieldClosure) (*domain.FieldClosure, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("field_closures").
		Columns("field_id", "closure_date", "reason").
		Values(c.FieldID, c.ClosureDate, c.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateClosure - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&c.ID, &createdAt)
	if pgerr.IsUniqueViolation(err) {
		return nil, ErrClosureExists
	}
	if err != nil {
		return nil, fmt.Errorf("%w: CreateClosure - execute insert: %w", ErrExecQuery, err)
	}

	c.CreatedAt = createdAt.Time

	return c, nil
}

// DeleteClosure удаляет закрытие поля
func (r *Repository) DeleteClosure(ctx context.Context, fieldID, closureID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("field_closures").
		Where(squirrel.Eq{"id": closureID, "field_id": fieldID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteClosure - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteClosure - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteClosure - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrClosureNotFound
	}

	return nil
}
