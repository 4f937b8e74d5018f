// Package txmanager выполняет функции в транзакции, переданной через context
package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-Marketplace/pkg/dbmetrics"
	"github.com/m04kA/SMC-Marketplace/pkg/pgerr"
)

var (
	// ErrTransaction возвращается при ошибках начала/фиксации транзакции
	ErrTransaction = errors.New("txmanager: transaction error")

	// ErrTransient возвращается, когда транзакция не смогла получить блокировки
	// (lock_timeout, deadlock, конфликт сериализации). Операцию можно повторить целиком.
	ErrTransient = errors.New("txmanager: transient conflict, retry the operation")
)

// Beginner источник транзакций (*dbmetrics.DB)
type Beginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// Option настройка менеджера
type Option func(*TransactionManager)

// WithLockTimeout ограничивает ожидание блокировок строк внутри транзакции (SET LOCAL lock_timeout)
func WithLockTimeout(timeout time.Duration) Option {
	return func(m *TransactionManager) {
		m.lockTimeout = timeout
	}
}

// TransactionManager менеджер транзакций
type TransactionManager struct {
	db          Beginner
	lockTimeout time.Duration
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db Beginner, opts ...Option) *TransactionManager {
	m := &TransactionManager{db: db}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Do выполняет fn в транзакции READ COMMITTED.
// Используется вместе с явными блокировками строк (SELECT ... FOR UPDATE):
// после ожидания блокировки повторное чтение видит зафиксированные данные конкурента.
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, fn)
}

// DoReadOnly выполняет fn в read-only транзакции REPEATABLE READ:
// все запросы fn видят один снимок данных. Репозитории внутри транзакции
// добавляют FOR UPDATE, поэтому сюда передаются только чтения без блокировок.
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, fn)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	// Вложенный вызов выполняется в уже открытой транзакции
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", ErrTransaction, err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if m.lockTimeout > 0 {
		query := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", m.lockTimeout.Milliseconds())
		if _, err := tx.ExecContext(ctx, query); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("%w: set lock_timeout: %w", ErrTransaction, err)
		}
	}

	if err := fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w: rollback failed: %v (original error: %w)", ErrTransaction, rbErr, err)
		}
		if pgerr.IsTransient(err) {
			return fmt.Errorf("%w: %w", ErrTransient, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		if pgerr.IsTransient(err) {
			return fmt.Errorf("%w: commit: %w", ErrTransient, err)
		}
		return fmt.Errorf("%w: commit: %w", ErrTransaction, err)
	}

	return nil
}
