package create_booking

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
	"github.com/m04kA/SMC-Marketplace/pkg/money"
	"github.com/m04kA/SMC-Marketplace/pkg/types"
)

// validatedRequest разобранный и проверенный запрос
type validatedRequest struct {
	date         time.Time
	startMinutes int
	endMinutes   int
	startTime    types.TimeString
	endTime      types.TimeString
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) (*validatedRequest, error) {
	if req.FieldID <= 0 {
		return nil, fmt.Errorf("%w: fieldID must be positive", ErrInvalidInput)
	}

	if req.UserID <= 0 {
		return nil, fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	date, err := types.ParseDate(req.BookingDate)
	if err != nil {
		return nil, fmt.Errorf("%w: bookingDate must be YYYY-MM-DD: %v", ErrInvalidInput, err)
	}

	start, ok := types.ParseTimeToMinutes(req.StartTime)
	if !ok {
		return nil, fmt.Errorf("%w: startTime must be HH:MM or HH:MM:SS", ErrInvalidInput)
	}

	end, ok := types.ParseTimeToMinutes(req.EndTime)
	if !ok {
		return nil, fmt.Errorf("%w: endTime must be HH:MM or HH:MM:SS", ErrInvalidInput)
	}

	if end <= start {
		return nil, fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
	}

	if req.TotalPrice != nil && req.TotalPrice.IsNegative() {
		return nil, fmt.Errorf("%w: totalPrice must not be negative", ErrInvalidInput)
	}

	return &validatedRequest{
		date:         date,
		startMinutes: start,
		endMinutes:   end,
		startTime:    types.NewTimeStringFromMinutes(start),
		endTime:      types.NewTimeStringFromMinutes(end),
	}, nil
}

// usableWindows оставляет окна с корректным временем
func usableWindows(windows []*domain.FieldAvailability) []*domain.FieldAvailability {
	result := make([]*domain.FieldAvailability, 0, len(windows))
	for _, w := range windows {
		if _, _, ok := w.Bounds(); ok {
			result = append(result, w)
		}
	}
	return result
}

// fitsAnyWindow проверяет, что [start, end) целиком лежит внутри одного окна.
// Бронирование не может захватывать два соседних окна.
func fitsAnyWindow(windows []*domain.FieldAvailability, start, end int) bool {
	for _, w := range windows {
		if w.Contains(start, end) {
			return true
		}
	}
	return false
}

// findConflict возвращает первое активное бронирование, пересекающееся с [start, end).
// Строки с некорректным временем пропускаются.
func findConflict(bookings []*domain.FieldBooking, start, end int) *domain.FieldBooking {
	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		bStart, bEnd, ok := b.Interval()
		if !ok {
			continue
		}
		if types.Overlaps(start, end, bStart, bEnd) {
			return b
		}
	}
	return nil
}

// priceFor возвращает цену бронирования: явную цену, округленную до копеек,
// либо почасовую ставку поля за длительность интервала
func priceFor(explicit *decimal.Decimal, field *domain.Field, minutes int) decimal.NullDecimal {
	if explicit != nil {
		return decimal.NewNullDecimal(explicit.Round(2))
	}
	if !field.PricePerHour.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(money.HourlyCost(field.PricePerHour.Decimal, minutes))
}
