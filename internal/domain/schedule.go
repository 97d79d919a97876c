package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// WeeklySchedule regular working hours of a staff member for one weekday.
// Several entries for the same weekday describe a split shift.
type WeeklySchedule struct {
	ID        uuid.UUID
	StaffID   uuid.UUID
	Weekday   time.Weekday
	StartTime types.TimeOfDay
	EndTime   types.TimeOfDay
}

// IsValid returns true if the entry describes a non-empty window
func (s *WeeklySchedule) IsValid() bool {
	return s.StartTime.Before(s.EndTime)
}
