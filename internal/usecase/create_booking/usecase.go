package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
	fieldRepo "github.com/m04kA/SMC-Marketplace/internal/infra/storage/field"
	"github.com/m04kA/SMC-Marketplace/pkg/metrics"
	"github.com/m04kA/SMC-Marketplace/pkg/types"
)

// UseCase use case для создания бронирования поля
type UseCase struct {
	fieldRepo   FieldRepository
	bookingRepo BookingRepository
	txManager   TransactionManager
	events      EventRecorder
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	fieldRepo FieldRepository,
	bookingRepo BookingRepository,
	txManager TransactionManager,
	events EventRecorder,
	logger Logger,
) *UseCase {
	if events == nil {
		events = metrics.Nop{}
	}

	return &UseCase{
		fieldRepo:   fieldRepo,
		bookingRepo: bookingRepo,
		txManager:   txManager,
		events:      events,
		logger:      logger,
	}
}

// Execute выполняет use case создания бронирования.
//
// Все проверки выполняются внутри одной транзакции после блокировки строки поля:
// конкурентные запросы на одно поле выстраиваются в очередь на этой блокировке,
// и второй запрос видит бронирование, зафиксированное первым.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, field=%d, date=%s, time=%s-%s",
		req.UserID, req.FieldID, req.BookingDate, req.StartTime, req.EndTime)

	// 1. Валидация входных данных
	v, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		uc.events.RecordEvent(metrics.EventBookingRejected)
		return nil, err
	}

	var result *domain.FieldBooking

	// 2. Выполняем проверки и запись в транзакции
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2.1. Блокируем строку поля
		field, err := uc.fieldRepo.GetByIDForUpdate(txCtx, req.FieldID)
		if err != nil {
			if errors.Is(err, fieldRepo.ErrFieldNotFound) {
				uc.logger.Warn("CreateBooking: field id=%d not found", req.FieldID)
				return ErrFieldNotFound
			}
			uc.logger.Error("CreateBooking: failed to lock field id=%d: %v", req.FieldID, err)
			return fmt.Errorf("%w: failed to lock field: %w", ErrInternal, err)
		}

		if !field.IsActive() {
			uc.logger.Warn("CreateBooking: field id=%d is %s", field.ID, field.Status)
			return fmt.Errorf("%w: field is disabled", ErrNotAvailable)
		}

		// 2.2. Закрытие на дату перекрывает недельное расписание
		closure, err := uc.fieldRepo.GetClosureByDate(txCtx, field.ID, v.date)
		if err != nil && !errors.Is(err, fieldRepo.ErrClosureNotFound) {
			uc.logger.Error("CreateBooking: failed to get closure: %v", err)
			return fmt.Errorf("%w: failed to get closure: %w", ErrInternal, err)
		}
		if closure != nil {
			uc.logger.Warn("CreateBooking: field id=%d is closed on %s", field.ID, types.FormatDate(v.date))
			return fmt.Errorf("%w: field is closed on %s", ErrNotAvailable, types.FormatDate(v.date))
		}

		// 2.3. Окна доступности на день недели
		dayOfWeek := types.DayOfWeek(v.date)
		windows, err := uc.fieldRepo.GetActiveAvailabilityByDay(txCtx, field.ID, dayOfWeek)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get availability: %v", err)
			return fmt.Errorf("%w: failed to get availability: %w", ErrInternal, err)
		}

		windows = usableWindows(windows)
		if len(windows) == 0 {
			uc.logger.Warn("CreateBooking: field id=%d has no availability on day %d", field.ID, dayOfWeek)
			return fmt.Errorf("%w: no opening hours on this day", ErrNotAvailable)
		}

		// 2.4. Интервал должен целиком лежать в одном окне
		if !fitsAnyWindow(windows, v.startMinutes, v.endMinutes) {
			uc.logger.Warn("CreateBooking: %s-%s is outside opening hours of field id=%d",
				v.startTime, v.endTime, field.ID)
			return ErrOutsideHours
		}

		// 2.5. Активные бронирования на дату с блокировкой (FOR UPDATE)
		existing, err := uc.bookingRepo.GetActiveByFieldAndDate(txCtx, field.ID, v.date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
		}

		if conflict := findConflict(existing, v.startMinutes, v.endMinutes); conflict != nil {
			uc.logger.Warn("CreateBooking: %s-%s overlaps booking %s-%s on field id=%d",
				v.startTime, v.endTime, conflict.StartTime, conflict.EndTime, field.ID)
			return ErrSlotConflict
		}

		// 2.6. Сохраняем бронирование
		booking := &domain.FieldBooking{
			FieldID:     field.ID,
			UserID:      req.UserID,
			BookingDate: v.date,
			StartTime:   v.startTime,
			EndTime:     v.endTime,
			Status:      domain.BookingStatusConfirmed,
			TotalPrice:  priceFor(req.TotalPrice, field, v.endMinutes-v.startMinutes),
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrSlotConflict):
			uc.events.RecordEvent(metrics.EventBookingConflict)
		case errors.Is(err, ErrInternal):
		default:
			uc.events.RecordEvent(metrics.EventBookingRejected)
		}
		return nil, err
	}

	uc.events.RecordEvent(metrics.EventBookingCreated)
	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	return toResponse(result), nil
}

func toResponse(b *domain.FieldBooking) *Response {
	resp := &Response{
		ID:          b.ID,
		FieldID:     b.FieldID,
		UserID:      b.UserID,
		BookingDate: b.BookingDate,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
	if b.TotalPrice.Valid {
		price := b.TotalPrice.Decimal
		resp.TotalPrice = &price
	}
	return resp
}
