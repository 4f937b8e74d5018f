package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
	"github.com/m04kA/SMC-Marketplace/pkg/types"
)

// normalizedRequest запрос после подстановки значений по умолчанию
type normalizedRequest struct {
	fieldID     int64
	startDate   time.Time
	numDays     int
	slotMinutes int
}

// normalizeRequest валидирует запрос и подставляет значения по умолчанию
func normalizeRequest(req *Request, settings Settings, now time.Time) (*normalizedRequest, error) {
	if req.FieldID <= 0 {
		return nil, fmt.Errorf("%w: fieldID must be positive", ErrInvalidInput)
	}

	n := &normalizedRequest{
		fieldID:     req.FieldID,
		startDate:   types.Today(now),
		numDays:     domain.DefaultRangeDays,
		slotMinutes: settings.DefaultSlotMinutes,
	}

	if req.StartDate != nil {
		n.startDate = types.DateOnly(*req.StartDate)
	}

	if req.SlotMinutes != nil {
		if *req.SlotMinutes <= 0 {
			return nil, fmt.Errorf("%w: slotMinutes must be a positive integer", ErrInvalidInput)
		}
		if *req.SlotMinutes > domain.MaxSlotMinutes {
			return nil, fmt.Errorf("%w: slotMinutes must not exceed %d", ErrInvalidInput, domain.MaxSlotMinutes)
		}
		n.slotMinutes = *req.SlotMinutes
	}

	if req.NumDays != nil {
		n.numDays = *req.NumDays
	}
	n.numDays = clampDays(n.numDays, settings.MaxRangeDays)

	return n, nil
}

// clampDays ограничивает количество дней диапазоном [1, maxDays]
func clampDays(days, maxDays int) int {
	if maxDays < 1 {
		maxDays = domain.MaxRangeDays
	}
	if days < 1 {
		return 1
	}
	if days > maxDays {
		return maxDays
	}
	return days
}
