package get_available_slots

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// ScheduleRepository недельное расписание мастеров
type ScheduleRepository interface {
	GetByStaff(ctx context.Context, staffID uuid.UUID) ([]domain.WeeklySchedule, error)
}

// BlockedTimeRepository блокировки времени и переопределения расписания (одна таблица)
type BlockedTimeRepository interface {
	// GetOverrides строки is_available_slot = true, пересекающиеся с окном.
	// Привязка к дате (по локальной дате начала) выполняется в use case.
	GetOverrides(ctx context.Context, staffID uuid.UUID, window domain.Interval) ([]domain.BlockedTime, error)
	// GetBlocked остальные строки, пересекающиеся с окном
	GetBlocked(ctx context.Context, staffID uuid.UUID, window domain.Interval) ([]domain.BlockedTime, error)
}

// AppointmentRepository неотмененные записи (клиентов или гостей), пересекающиеся с окном
type AppointmentRepository interface {
	GetActiveInRange(ctx context.Context, staffID uuid.UUID, window domain.Interval) ([]domain.Appointment, error)
}

// ServiceRepository каталог услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Service, error)
}

// Repositories набор источников данных use case
type Repositories struct {
	Schedules         ScheduleRepository
	BlockedTimes      BlockedTimeRepository
	Appointments      AppointmentRepository
	GuestAppointments AppointmentRepository
	Services          ServiceRepository
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Metrics метрики расчета доступности
type Metrics interface {
	ObserveAvailability(outcome string, slots int)
	ObserveSourceFailure(source string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type nopMetrics struct{}

func (nopMetrics) ObserveAvailability(string, int) {}
func (nopMetrics) ObserveSourceFailure(string) {}
