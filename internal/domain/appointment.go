package domain

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Appointment represents a booked visit, either by a registered client or by a guest.
// Start and End are UTC instants.
type Appointment struct {
	ID      uuid.UUID
	StaffID uuid.UUID
	Start   time.Time
	End     time.Time
	Status  AppointmentStatus
	Guest   bool // true for rows from guest_appointments
}

// IsActive returns true if the appointment still occupies the staff member's time
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled
}

// Interval returns the occupied half-open range
func (a *Appointment) Interval() Interval {
	return Interval{Start: a.Start, End: a.End}
}
