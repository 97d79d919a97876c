package get_available_slots

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных или конфигурации
	ErrInvalidInput = errors.New("invalid input data")

	// ErrAmbiguousTime возвращается, когда время расписания попадает в дыру перехода на летнее время
	ErrAmbiguousTime = errors.New("ambiguous wall-clock time")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("service not found")

	// ErrSourceUnavailable возвращается, когда один из источников данных не удалось прочитать.
	// Конкретный источник доступен через *SourceUnavailableError.
	ErrSourceUnavailable = errors.New("availability source unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)

// Source источник данных для расчета доступности
type Source string

const (
	SourceAppointments      Source = "appointments"
	SourceGuestAppointments Source = "guest_appointments"
	SourceBlockedTimes      Source = "blocked_times"
	SourceOverrides         Source = "available_slot_overrides"
	SourceSchedules         Source = "staff_schedules"
	SourceServices          Source = "services"
)

// SourceUnavailableError источник не прочитан; расчет прерывается целиком,
// частичный снимок занятости никогда не используется
type SourceUnavailableError struct {
	Source Source
	Err    error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrSourceUnavailable, e.Source, e.Err)
}

// Unwrap позволяет проверять и ErrSourceUnavailable, и исходную ошибку репозитория
func (e *SourceUnavailableError) Unwrap() []error {
	return []error{ErrSourceUnavailable, e.Err}
}

func sourceUnavailable(source Source, err error) error {
	return &SourceUnavailableError{Source: source, Err: err}
}
