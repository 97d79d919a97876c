package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// BlockedTime represents a row of blocked_times.
// Rows with IsAvailableSlot = true are not blocks: they carve out bookable time
// for one date and replace the weekly schedule for it.
type BlockedTime struct {
	ID              uuid.UUID
	StaffID         uuid.UUID
	Start           time.Time
	End             time.Time
	Reason          *string
	IsAvailableSlot bool
}

// Interval returns the half-open range of the row
func (b *BlockedTime) Interval() Interval {
	return Interval{Start: b.Start, End: b.End}
}

// AvailableSlotOverride explicit bookable window for one staff member on one date
type AvailableSlotOverride struct {
	StaffID  uuid.UUID
	Date     types.LocalDate
	Interval Interval
}
