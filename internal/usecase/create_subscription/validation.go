package create_subscription

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
	"github.com/m04kA/SMC-Marketplace/pkg/types"
)

// validateRequest валидирует входные данные и возвращает нормализованный тип
// и желаемую дату начала (nil, если не указана). Дата в прошлом не ошибка:
// при продлении она не используется, иначе заменяется сегодняшней.
func validateRequest(req *Request) (domain.SubscriptionType, *time.Time, error) {
	if req.FieldID <= 0 {
		return "", nil, fmt.Errorf("%w: fieldID must be positive", ErrInvalidInput)
	}

	if req.UserID <= 0 {
		return "", nil, fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	subType, ok := domain.ParseSubscriptionType(req.Type)
	if !ok {
		return "", nil, fmt.Errorf("%w: %q", ErrInvalidType, req.Type)
	}

	if req.StartDate == nil {
		return subType, nil, nil
	}

	start, err := types.ParseDate(*req.StartDate)
	if err != nil {
		return "", nil, fmt.Errorf("%w: startDate must be YYYY-MM-DD: %v", ErrInvalidInput, err)
	}

	return subType, &start, nil
}

// periodEnd последний день периода (включительно): start + N месяцев с ограничением
// по длине месяца, минус один день. 2025-02-01 monthly → 2025-02-28.
func periodEnd(start time.Time, subType domain.SubscriptionType) time.Time {
	return types.AddDays(types.AddMonthsClamped(start, subType.Months()), -1)
}

// resolveStart дата начала новой (не продлеваемой) подписки:
// запрошенная, если она не раньше today, иначе today
func resolveStart(requested *time.Time, today time.Time) time.Time {
	if requested == nil || requested.Before(today) {
		return today
	}
	return *requested
}

// latestEnd возвращает самую позднюю дату окончания среди активных подписок
func latestEnd(active []*domain.FieldSubscription) (time.Time, bool) {
	var latest time.Time
	found := false
	for _, s := range active {
		if !s.IsActive() {
			continue
		}
		if !found || s.EndDate.After(latest) {
			latest = types.DateOnly(s.EndDate)
			found = true
		}
	}
	return latest, found
}
