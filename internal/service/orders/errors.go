package orders

import "errors"

var (
	// ErrOrderNotFound возвращается, когда заказ не найден
	ErrOrderNotFound = errors.New("order not found")

	// ErrForbidden возвращается, когда у пользователя нет прав на заказ
	ErrForbidden = errors.New("access to the order is forbidden")

	// ErrInvalidStateTransition возвращается при неизвестном статусе или изменении завершенного заказа
	ErrInvalidStateTransition = errors.New("invalid order status transition")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
