package merchant

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

// Repository репозиторий продавцов (только чтение владельца)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория продавцов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает продавца по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Merchant, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "owner_id", "name").
		From("merchants").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	var m domain.Merchant
	err = executor.QueryRowContext(ctx, query, args...).Scan(&m.ID, &m.OwnerID, &m.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMerchantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan merchant: %w", ErrScanRow, err)
	}

	return &m, nil
}

// IsOwner проверяет, что пользователь владеет продавцом
func (r *Repository) IsOwner(ctx context.Context, merchantID, userID int64) (bool, error) {
	m, err := r.GetByID(ctx, merchantID)
	if errors.Is(err, ErrMerchantNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return m.OwnerID == userID, nil
}
