package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-Marketplace/pkg/types"
)

// BookingStatus represents the status of a field booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// ActiveBookingStatuses statuses that occupy a time range
var ActiveBookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
}

// bookingTransitions allowed status changes after creation
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCancelled, BookingStatusCompleted},
}

// FieldBooking represents a reservation of a field for a date and time range
type FieldBooking struct {
	ID          int64
	FieldID     int64
	UserID      int64
	BookingDate time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString
	Status      BookingStatus
	TotalPrice  decimal.NullDecimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive returns true if the booking blocks its time range
func (b *FieldBooking) IsActive() bool {
	return b.Status.IsActive()
}

// Interval returns the booking as minutes since midnight; ok is false for malformed rows
func (b *FieldBooking) Interval() (start, end int, ok bool) {
	start, okStart := types.ParseTimeToMinutes(b.StartTime.String())
	end, okEnd := types.ParseTimeToMinutes(b.EndTime.String())
	if !okStart || !okEnd || end <= start {
		return 0, 0, false
	}
	return start, end, true
}

// IsActive returns true for pending and confirmed bookings
func (s BookingStatus) IsActive() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

// IsValid returns true for known statuses
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status may change to next
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// BookingsFilter selects bookings of a field over a date range
type BookingsFilter struct {
	FieldID    int64
	StartDate  time.Time
	EndDate    time.Time // inclusive
	OnlyActive bool
}
