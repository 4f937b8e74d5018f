package models

import (
	"github.com/m04kA/SMC-Marketplace/internal/domain"
	"github.com/m04kA/SMC-Marketplace/pkg/types"
)

// Request модели

// AddAvailabilityRequest запрос на добавление окна доступности
type AddAvailabilityRequest struct {
	Actor     domain.Actor
	FieldID   int64
	DayOfWeek int    // 0-6, воскресенье = 0
	StartTime string // "HH:MM" или "HH:MM:SS"
	EndTime   string
}

// AddClosureRequest запрос на закрытие поля на дату
type AddClosureRequest struct {
	Actor   domain.Actor
	FieldID int64
	Date    string // "YYYY-MM-DD"
	Reason  *string
}

// Response модели

// AvailabilityResponse окно доступности
type AvailabilityResponse struct {
	ID        int64  `json:"id"`
	FieldID   int64  `json:"fieldId"`
	DayOfWeek int    `json:"dayOfWeek"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	IsActive  bool   `json:"isActive"`
}

// ClosureResponse закрытие поля
type ClosureResponse struct {
	ID      int64   `json:"id"`
	FieldID int64   `json:"fieldId"`
	Date    string  `json:"date"`
	Reason  *string `json:"reason,omitempty"`
}

// ScheduleResponse недельное расписание поля и ближайшие закрытия
type ScheduleResponse struct {
	FieldID      int64                  `json:"fieldId"`
	Availability []AvailabilityResponse `json:"availability"`
	Closures     []ClosureResponse      `json:"closures"`
}

// Методы конвертации

// FromDomainAvailability конвертирует окно доступности в DTO
func FromDomainAvailability(a *domain.FieldAvailability) AvailabilityResponse {
	return AvailabilityResponse{
		ID:        a.ID,
		FieldID:   a.FieldID,
		DayOfWeek: a.DayOfWeek,
		StartTime: a.StartTime.String(),
		EndTime:   a.EndTime.String(),
		IsActive:  a.IsActive,
	}
}

// FromDomainClosure конвертирует закрытие в DTO
func FromDomainClosure(c *domain.FieldClosure) ClosureResponse {
	return ClosureResponse{
		ID:      c.ID,
		FieldID: c.FieldID,
		Date:    types.FormatDate(c.ClosureDate),
		Reason:  c.Reason,
	}
}
