package domain

// Default configuration values
const (
	DefaultSlotGranularityMinutes  = 30
	DefaultMinBookingNoticeMinutes = 0
	DefaultMaxAdvanceDays          = 0 // 0 = unlimited
)

// Business validation constants
const (
	MinServiceDurationMinutes = 5
	MaxServiceDurationMinutes = 720 // 12 hours
	MinSlotGranularityMinutes = 5
	MaxSlotGranularityMinutes = 240
	MaxBookingNoticeMinutes   = 10080 // 1 week
	MaxAdvanceDays            = 365   // 1 year
)

// TimeFormat формат времени суток HH:MM
const TimeFormat = "15:04"

// InactiveStatuses статусы, при которых запись не занимает время мастера
// Используется для фильтрации при сборе занятости
var InactiveStatuses = []AppointmentStatus{
	StatusCancelled,
}
