package types

import (
	"fmt"
	"strings"
	"time"
)

// DateFormat формат даты без времени
const DateFormat = "2006-01-02"

// ParseDate парсит дату "YYYY-MM-DD" в полночь UTC
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateFormat, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// DateOnly отбрасывает время и приводит дату к полуночи UTC.
// Календарная дата берется из исходной зоны, чтобы DATE из БД не сдвигался.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today возвращает текущую дату (UTC)
func Today(now time.Time) time.Time {
	return DateOnly(now.UTC())
}

// AddDays сдвигает дату на n календарных дней
func AddDays(date time.Time, n int) time.Time {
	return DateOnly(date).AddDate(0, 0, n)
}

// DayOfWeek возвращает день недели 0-6, воскресенье = 0
func DayOfWeek(date time.Time) int {
	return int(DateOnly(date).Weekday())
}

// AddMonthsClamped сдвигает дату на n календарных месяцев.
// Если в целевом месяце нет такого дня, берется последний день месяца:
// 31 января + 1 месяц = 28 (29) февраля, а не 3 марта.
func AddMonthsClamped(date time.Time, n int) time.Time {
	y, m, d := DateOnly(date).Date()

	// Нормализуем номер месяца через time.Date с первым числом
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	last := DaysInMonth(first.Year(), first.Month())
	if d > last {
		d = last
	}

	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

// DaysInMonth возвращает количество дней в месяце
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FormatDate форматирует дату в "YYYY-MM-DD"
func FormatDate(date time.Time) string {
	return DateOnly(date).Format(DateFormat)
}
