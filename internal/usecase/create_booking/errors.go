package create_booking

import "errors"

var (
	// ErrFieldNotFound возвращается, когда поле не найдено
	ErrFieldNotFound = errors.New("create_booking: field not found")

	// ErrNotAvailable возвращается, когда поле выключено, закрыто на дату
	// или не имеет окон доступности в этот день недели
	ErrNotAvailable = errors.New("create_booking: field is not available on this date")

	// ErrOutsideHours возвращается, когда интервал не помещается целиком ни в одно окно доступности
	ErrOutsideHours = errors.New("create_booking: requested time is outside opening hours")

	// ErrSlotConflict возвращается, когда интервал пересекается с активным бронированием
	ErrSlotConflict = errors.New("create_booking: time range overlaps an existing booking")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
