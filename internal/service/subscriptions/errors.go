package subscriptions

import "errors"

var (
	// ErrSubscriptionNotFound возвращается, когда подписка не найдена
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrForbidden возвращается, когда подписка принадлежит другому пользователю
	ErrForbidden = errors.New("subscription belongs to another user")

	// ErrInvalidStateTransition возвращается при отмене неактивной подписки
	ErrInvalidStateTransition = errors.New("only an active subscription can be cancelled")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
