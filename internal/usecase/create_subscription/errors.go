package create_subscription

import "errors"

var (
	// ErrFieldNotFound возвращается, когда поле не найдено
	ErrFieldNotFound = errors.New("create_subscription: field not found")

	// ErrNotAvailable возвращается, когда поле выключено
	ErrNotAvailable = errors.New("create_subscription: field is not available")

	// ErrInvalidType возвращается при неизвестном типе подписки
	ErrInvalidType = errors.New("create_subscription: invalid subscription type")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_subscription: invalid input data")

	// ErrPeriodOverlap возвращается, когда период пересекается с активной подпиской,
	// созданной в обход продления
	ErrPeriodOverlap = errors.New("create_subscription: subscription period overlaps an active subscription")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_subscription: internal error")
)
