package get_available_slots

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// validateConfig проверяет настройки расчета
func validateConfig(cfg Config) error {
	if cfg.Zone == nil {
		return fmt.Errorf("%w: timezone is required", ErrInvalidInput)
	}

	if cfg.SlotGranularityMinutes < domain.MinSlotGranularityMinutes ||
		cfg.SlotGranularityMinutes > domain.MaxSlotGranularityMinutes {
		return fmt.Errorf("%w: slot granularity must be in %d..%d minutes, got %d", ErrInvalidInput,
			domain.MinSlotGranularityMinutes, domain.MaxSlotGranularityMinutes, cfg.SlotGranularityMinutes)
	}

	if cfg.MinBookingNoticeMinutes < 0 || cfg.MinBookingNoticeMinutes > domain.MaxBookingNoticeMinutes {
		return fmt.Errorf("%w: min booking notice must be in 0..%d minutes, got %d", ErrInvalidInput,
			domain.MaxBookingNoticeMinutes, cfg.MinBookingNoticeMinutes)
	}

	if cfg.MaxAdvanceDays < 0 || cfg.MaxAdvanceDays > domain.MaxAdvanceDays {
		return fmt.Errorf("%w: max advance days must be in 0..%d, got %d", ErrInvalidInput,
			domain.MaxAdvanceDays, cfg.MaxAdvanceDays)
	}

	if w := cfg.DefaultDailyWindow; w != nil && !w.Start.Before(w.End) {
		return fmt.Errorf("%w: default daily window %s-%s is empty", ErrInvalidInput, w.Start, w.End)
	}

	return nil
}

// validateRequest валидирует входные данные запроса и возвращает разобранные идентификаторы
func validateRequest(req *Request) (staffID uuid.UUID, serviceID *uuid.UUID, err error) {
	if req == nil {
		return uuid.Nil, nil, fmt.Errorf("%w: request is required", ErrInvalidInput)
	}

	staffID, err = parseID("staffId", req.StaffID)
	if err != nil {
		return uuid.Nil, nil, err
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return uuid.Nil, nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.ServiceID != nil {
		if req.ServiceDurationMinutes != 0 {
			return uuid.Nil, nil, fmt.Errorf("%w: specify either service duration or serviceId, not both", ErrInvalidInput)
		}
		id, err := parseID("serviceId", *req.ServiceID)
		if err != nil {
			return uuid.Nil, nil, err
		}
		return staffID, &id, nil
	}

	if err := validateDuration(req.ServiceDurationMinutes); err != nil {
		return uuid.Nil, nil, err
	}

	return staffID, nil, nil
}

func parseID(field, raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: %s must be a UUID, got %q", ErrInvalidInput, field, raw)
	}
	return id, nil
}

// validateDuration проверяет длительность услуги
func validateDuration(minutes int) error {
	if minutes <= 0 {
		return fmt.Errorf("%w: service duration must be positive, got %d", ErrInvalidInput, minutes)
	}
	if minutes < domain.MinServiceDurationMinutes || minutes > domain.MaxServiceDurationMinutes {
		return fmt.Errorf("%w: service duration must be in %d..%d minutes, got %d", ErrInvalidInput,
			domain.MinServiceDurationMinutes, domain.MaxServiceDurationMinutes, minutes)
	}
	return nil
}

// validateDate проверяет, что дата не в прошлом и не дальше maxAdvanceDays от сегодняшней
func validateDate(date, today types.LocalDate, maxAdvanceDays int) error {
	if date.Before(today) {
		return fmt.Errorf("%w: date %s is in the past (today is %s)", ErrInvalidInput, date, today)
	}

	// Если maxAdvanceDays = 0, нет ограничений на дату
	if maxAdvanceDays == 0 {
		return nil
	}

	if maxDate := today.AddDays(maxAdvanceDays); date.After(maxDate) {
		return fmt.Errorf("%w: can only query %d days in advance (until %s)", ErrInvalidInput, maxAdvanceDays, maxDate)
	}

	return nil
}
