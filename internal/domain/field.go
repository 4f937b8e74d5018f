package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-Marketplace/pkg/types"
)

// FieldStatus represents whether a field can be booked
type FieldStatus string

const (
	FieldStatusActive   FieldStatus = "active"
	FieldStatusDisabled FieldStatus = "disabled"
)

// Field represents a bookable venue owned by a merchant
type Field struct {
	ID           int64
	MerchantID   int64
	CategoryID   *int64
	Title        string
	Address      *string
	City         *string
	Latitude     *float64
	Longitude    *float64
	PricePerHour decimal.NullDecimal
	Status       FieldStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive returns true if the field accepts bookings
func (f *Field) IsActive() bool {
	return f.Status == FieldStatusActive
}

// FieldAvailability is a recurring weekly opening window
type FieldAvailability struct {
	ID        int64
	FieldID   int64
	DayOfWeek int // 0-6, Sunday = 0
	StartTime types.TimeString
	EndTime   types.TimeString
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Bounds returns the window as minutes since midnight.
// ok is false when stored times are malformed or end is not after start.
func (a *FieldAvailability) Bounds() (start, end int, ok bool) {
	start, okStart := types.ParseTimeToMinutes(a.StartTime.String())
	end, okEnd := types.ParseTimeToMinutes(a.EndTime.String())
	if !okStart || !okEnd || end <= start {
		return 0, 0, false
	}
	return start, end, true
}

// Contains returns true if [start, end) lies fully inside the window
func (a *FieldAvailability) Contains(start, end int) bool {
	winStart, winEnd, ok := a.Bounds()
	if !ok {
		return false
	}
	return start >= winStart && end <= winEnd
}

// FieldClosure closes a field for a whole calendar date
type FieldClosure struct {
	ID          int64
	FieldID     int64
	ClosureDate time.Time
	Reason      *string
	CreatedAt   time.Time
}
