package get_available_slots

import (
	"strconv"

	getAvailableSlots "github.com/m04kA/SMC-Marketplace/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-Marketplace/pkg/types"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	FieldID     int64     `json:"fieldId"`
	StartDate   string    `json:"startDate"`
	NumDays     int       `json:"numDays"`
	SlotMinutes int       `json:"slotMinutes"`
	Days        []DayView `json:"days"`
}

// DayView слоты одной даты
type DayView struct {
	Date      string     `json:"date"`
	DayOfWeek int        `json:"dayOfWeek"`
	IsClosed  bool       `json:"isClosed"`
	Reason    *string    `json:"reason,omitempty"`
	FreeSlots int        `json:"freeSlots"`
	Slots     []SlotView `json:"slots"`
}

// SlotView модель временного слота
type SlotView struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Booked    bool   `json:"booked"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	days := make([]DayView, len(resp.Days))
	for i := range resp.Days {
		day := &resp.Days[i]

		slots := make([]SlotView, len(day.Slots))
		for j, slot := range day.Slots {
			slots[j] = SlotView{
				StartTime: slot.StartTime.String(),
				EndTime:   slot.EndTime.String(),
				Booked:    slot.Booked,
			}
		}

		days[i] = DayView{
			Date:      types.FormatDate(day.Date),
			DayOfWeek: day.DayOfWeek,
			IsClosed:  day.IsClosed,
			Reason:    day.Reason,
			FreeSlots: day.FreeSlots(),
			Slots:     slots,
		}
	}

	return &AvailableSlotsResponse{
		FieldID:     resp.FieldID,
		StartDate:   types.FormatDate(resp.StartDate),
		NumDays:     resp.NumDays,
		SlotMinutes: resp.SlotMinutes,
		Days:        days,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров.
// Все параметры необязательны; пустые значения заменяются в use case.
func ToUseCaseRequest(fieldID int64, startDate, days, slotMinutes string) (*getAvailableSlots.Request, error) {
	req := &getAvailableSlots.Request{FieldID: fieldID}

	if startDate != "" {
		date, err := types.ParseDate(startDate)
		if err != nil {
			return nil, err
		}
		req.StartDate = &date
	}

	if days != "" {
		n, err := strconv.Atoi(days)
		if err != nil {
			return nil, err
		}
		req.NumDays = &n
	}

	if slotMinutes != "" {
		n, err := strconv.Atoi(slotMinutes)
		if err != nil {
			return nil, err
		}
		req.SlotMinutes = &n
	}

	return req, nil
}
