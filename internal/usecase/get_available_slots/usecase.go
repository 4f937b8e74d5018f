package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
	fieldRepo "github.com/m04kA/SMC-Marketplace/internal/infra/storage/field"
	"github.com/m04kA/SMC-Marketplace/pkg/types"
)

// UseCase use case для расчета слотов поля на диапазон дат.
// Только чтение, без транзакции: результат носит справочный характер,
// окончательная проверка конфликтов выполняется при создании бронирования.
type UseCase struct {
	fieldRepo    FieldRepository
	bookingRepo  BookingRepository
	settings     Settings
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	fieldRepo FieldRepository,
	bookingRepo BookingRepository,
	settings Settings,
	logger Logger,
) *UseCase {
	if settings.MaxRangeDays < 1 {
		settings.MaxRangeDays = domain.MaxRangeDays
	}
	if settings.DefaultSlotMinutes < 1 {
		settings.DefaultSlotMinutes = domain.DefaultSlotMinutes
	}

	return &UseCase{
		fieldRepo:    fieldRepo,
		bookingRepo:  bookingRepo,
		settings:     settings,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация и значения по умолчанию
	n, err := normalizeRequest(req, uc.settings, uc.timeProvider.Now())
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	endDate := types.AddDays(n.startDate, n.numDays-1)

	uc.logger.Info("GetAvailableSlots: field=%d, from=%s, to=%s, slot=%dm",
		n.fieldID, types.FormatDate(n.startDate), types.FormatDate(endDate), n.slotMinutes)

	// 2. Загружаем поле, расписание, закрытия и бронирования параллельно
	var (
		windows  []*domain.FieldAvailability
		closures []*domain.FieldClosure
		bookings []*domain.FieldBooking
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		_, err := uc.fieldRepo.GetByID(gctx, n.fieldID)
		if errors.Is(err, fieldRepo.ErrFieldNotFound) {
			return ErrFieldNotFound
		}
		return err
	})

	g.Go(func() error {
		var err error
		windows, err = uc.fieldRepo.GetActiveAvailability(gctx, n.fieldID)
		return err
	})

	g.Go(func() error {
		var err error
		closures, err = uc.fieldRepo.GetClosuresInRange(gctx, n.fieldID, n.startDate, endDate)
		return err
	})

	g.Go(func() error {
		var err error
		bookings, err = uc.bookingRepo.GetByFieldInRange(gctx, domain.BookingsFilter{
			FieldID:    n.fieldID,
			StartDate:  n.startDate,
			EndDate:    endDate,
			OnlyActive: true,
		})
		return err
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, ErrFieldNotFound) {
			uc.logger.Warn("GetAvailableSlots: field id=%d not found", n.fieldID)
			return nil, ErrFieldNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to load data for field id=%d: %v", n.fieldID, err)
		return nil, fmt.Errorf("%w: failed to load field data: %w", ErrInternal, err)
	}

	// 3. Собираем слоты
	days := buildDays(n.startDate, n.numDays, n.slotMinutes, windows, closures, bookings)

	uc.logger.Info("GetAvailableSlots: field=%d, built %d days (%d windows, %d closures, %d bookings)",
		n.fieldID, len(days), len(windows), len(closures), len(bookings))

	return &Response{
		FieldID:     n.fieldID,
		StartDate:   n.startDate,
		NumDays:     n.numDays,
		SlotMinutes: n.slotMinutes,
		Days:        days,
	}, nil
}
