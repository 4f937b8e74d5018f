package subscription

import "errors"

var (
	// ErrSubscriptionNotFound возвращается, когда подписка не найдена
	ErrSubscriptionNotFound = errors.New("subscription.repository: subscription not found")

	// ErrPlanNotFound возвращается, когда активный публичный план не найден
	ErrPlanNotFound = errors.New("subscription.repository: plan not found")

	// ErrStatusChanged возвращается, когда статус подписки изменился конкурентно
	ErrStatusChanged = errors.New("subscription.repository: subscription status changed concurrently")

	// ErrPeriodOverlap возвращается, когда период новой активной подписки пересекается с существующим
	ErrPeriodOverlap = errors.New("subscription.repository: active subscription period overlaps")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("subscription.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("subscription.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("subscription.repository: failed to scan row")
)
