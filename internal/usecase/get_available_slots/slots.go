package get_available_slots

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
	"github.com/m04kA/SMC-Marketplace/pkg/types"
)

// interval полуоткрытый интервал [start, end) в минутах от начала суток
type interval struct {
	start int
	end   int
}

// buildDays собирает разбивку по дням из расписания, закрытий и бронирований.
// Строки с некорректным временем пропускаются.
func buildDays(
	startDate time.Time,
	numDays int,
	slotMinutes int,
	windows []*domain.FieldAvailability,
	closures []*domain.FieldClosure,
	bookings []*domain.FieldBooking,
) []domain.DaySlots {
	windowsByDay := groupWindows(windows)

	closuresByDate := make(map[string]*domain.FieldClosure, len(closures))
	for _, c := range closures {
		closuresByDate[types.FormatDate(c.ClosureDate)] = c
	}

	busyByDate := make(map[string][]interval)
	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		start, end, ok := b.Interval()
		if !ok {
			continue
		}
		key := types.FormatDate(b.BookingDate)
		busyByDate[key] = append(busyByDate[key], interval{start: start, end: end})
	}

	days := make([]domain.DaySlots, 0, numDays)
	for i := 0; i < numDays; i++ {
		date := types.AddDays(startDate, i)
		key := types.FormatDate(date)

		day := domain.DaySlots{
			Date:      date,
			DayOfWeek: types.DayOfWeek(date),
			Slots:     []domain.Slot{},
		}

		// Закрытие на дату перекрывает недельное расписание
		if closure, ok := closuresByDate[key]; ok {
			day.IsClosed = true
			day.Reason = closure.Reason
			days = append(days, day)
			continue
		}

		dayWindows := windowsByDay[day.DayOfWeek]
		if len(dayWindows) == 0 {
			day.IsClosed = true
			days = append(days, day)
			continue
		}

		for _, w := range dayWindows {
			day.Slots = append(day.Slots, windowSlots(w, slotMinutes, busyByDate[key])...)
		}
		days = append(days, day)
	}

	return days
}

// groupWindows раскладывает корректные окна по дням недели, сортируя по началу
func groupWindows(windows []*domain.FieldAvailability) map[int][]interval {
	byDay := make(map[int][]interval)
	for _, w := range windows {
		if !w.IsActive {
			continue
		}
		start, end, ok := w.Bounds()
		if !ok {
			continue
		}
		byDay[w.DayOfWeek] = append(byDay[w.DayOfWeek], interval{start: start, end: end})
	}

	for day := range byDay {
		sort.SliceStable(byDay[day], func(i, j int) bool {
			return byDay[day][i].start < byDay[day][j].start
		})
	}

	return byDay
}

// windowSlots нарезает окно на слоты фиксированной длины начиная с начала окна.
// Неполный последний слот отбрасывается.
func windowSlots(window interval, slotMinutes int, busy []interval) []domain.Slot {
	slots := make([]domain.Slot, 0)
	for start := window.start; start+slotMinutes <= window.end; start += slotMinutes {
		end := start + slotMinutes
		slots = append(slots, domain.Slot{
			StartTime: types.NewTimeStringFromMinutes(start),
			EndTime:   types.NewTimeStringFromMinutes(end),
			Booked:    isBusy(start, end, busy),
		})
	}
	return slots
}

// isBusy проверяет пересечение слота хотя бы с одним занятым интервалом.
// Соприкасающиеся интервалы (конец брони == начало слота) не пересекаются.
func isBusy(start, end int, busy []interval) bool {
	for _, b := range busy {
		if types.Overlaps(start, end, b.start, b.end) {
			return true
		}
	}
	return false
}
