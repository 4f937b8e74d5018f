package domain

import (
	"time"

	"github.com/m04kA/SMC-Marketplace/pkg/types"
)

// Slot is a fixed-size piece of an availability window
type Slot struct {
	StartTime types.TimeString
	EndTime   types.TimeString
	Booked    bool
}

// DaySlots is the slot breakdown of one calendar date
type DaySlots struct {
	Date      time.Time
	DayOfWeek int
	IsClosed  bool
	Reason    *string
	Slots     []Slot
}

// FreeSlots returns the number of slots that are not booked
func (d *DaySlots) FreeSlots() int {
	free := 0
	for _, s := range d.Slots {
		if !s.Booked {
			free++
		}
	}
	return free
}
