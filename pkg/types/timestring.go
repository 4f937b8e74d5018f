package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay количество минут в сутках, допустимый максимум для конца интервала ("24:00")
const MinutesPerDay = 24 * 60

// ErrInvalidTimeString возвращается, когда строка не соответствует формату HH:MM[:SS]
var ErrInvalidTimeString = errors.New("invalid time string format")

// TimeString время суток без даты в формате "HH:MM" или "HH:MM:SS"
// Хранится как есть, валидация выполняется при вызове Minutes/Validate,
// чтобы некорректные значения из БД можно было пропустить, а не падать при сканировании
type TimeString string

// NewTimeStringFromString парсит и нормализует строку времени к виду "HH:MM"
func NewTimeStringFromString(s string) (TimeString, error) {
	minutes, ok := ParseTimeToMinutes(s)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	return TimeString(FormatMinutes(minutes)), nil
}

// NewTimeStringFromMinutes создает TimeString из количества минут от начала суток
func NewTimeStringFromMinutes(minutes int) TimeString {
	return TimeString(FormatMinutes(minutes))
}

// String возвращает строковое представление
func (t TimeString) String() string {
	return string(t)
}

// IsZero возвращает true, если время не задано
func (t TimeString) IsZero() bool {
	return strings.TrimSpace(string(t)) == ""
}

// Validate проверяет формат времени
func (t TimeString) Validate() error {
	if _, ok := ParseTimeToMinutes(string(t)); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return nil
}

// Minutes возвращает количество минут от начала суток
func (t TimeString) Minutes() (int, error) {
	minutes, ok := ParseTimeToMinutes(string(t))
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return minutes, nil
}

// Scan реализует sql.Scanner. Значение не валидируется.
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
	case string:
		*t = TimeString(v)
	case []byte:
		*t = TimeString(string(v))
	case time.Time:
		*t = TimeString(v.Format("15:04:05"))
	default:
		return fmt.Errorf("TimeString.Scan: unsupported type %T", src)
	}
	return nil
}

// Value реализует driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	return string(t), nil
}

// ParseTimeToMinutes разбирает "HH:MM" или "HH:MM:SS" в минуты от начала суток.
// Секунды отбрасываются. "24:00" допускается как конец суток.
// Возвращает ok=false для любой некорректной строки.
func ParseTimeToMinutes(s string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, false
	}

	values := make([]int, len(parts))
	for i, part := range parts {
		if len(part) != 2 {
			return 0, false
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, false
		}
		values[i] = n
	}

	hours, minutes := values[0], values[1]
	seconds := 0
	if len(values) == 3 {
		seconds = values[2]
	}

	if minutes > 59 || seconds > 59 {
		return 0, false
	}
	if hours == 24 {
		if minutes != 0 || seconds != 0 {
			return 0, false
		}
		return MinutesPerDay, true
	}
	if hours > 23 {
		return 0, false
	}

	return hours*60 + minutes, true
}

// FormatMinutes форматирует минуты от начала суток в "HH:MM"
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Overlaps проверяет пересечение полуоткрытых интервалов [aStart, aEnd) и [bStart, bEnd).
// Соприкасающиеся интервалы (aEnd == bStart) не пересекаются.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}
