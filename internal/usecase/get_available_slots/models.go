package get_available_slots

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/timezone"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Request модель запроса на получение доступных слотов.
// Длительность задается либо явно, либо через услугу из каталога.
type Request struct {
	StaffID                string          // UUID мастера
	Date                   types.LocalDate // Дата в часовом поясе салона
	ServiceDurationMinutes int             // Длительность услуги в минутах
	ServiceID              *string         // UUID услуги (вместо ServiceDurationMinutes)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	StaffID         uuid.UUID
	Date            types.LocalDate
	Timezone        string
	DurationMinutes int
	Slots           []domain.Slot // Упорядочены по началу, не пересекаются
}

// DailyWindow рабочее окно по умолчанию
type DailyWindow struct {
	Start types.TimeOfDay
	End   types.TimeOfDay
}

// Config настройки расчета, передаются явно при создании use case
type Config struct {
	Zone                    *timezone.Zone
	SlotGranularityMinutes  int
	DefaultDailyWindow      *DailyWindow // только если у мастера нет никакого расписания
	MinBookingNoticeMinutes int
	MaxAdvanceDays          int // 0 = без ограничения
}

// windowSource откуда взяты рабочие окна (для логов)
type windowSource string

const (
	windowsFromOverrides windowSource = "overrides"
	windowsFromWeekly    windowSource = "weekly"
	windowsFromDefault   windowSource = "default"
	windowsNone          windowSource = "none"
)
