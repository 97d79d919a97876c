package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/timezone"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// resolveWindows определяет рабочие окна мастера на дату.
// Приоритет: переопределения на дату > недельное расписание > окно по умолчанию.
// Переопределения другой даты (начавшиеся накануне) расписание дня не заменяют.
// Окно по умолчанию применяется, только если у мастера нет ни одной записи расписания.
func (uc *UseCase) resolveWindows(
	ctx context.Context,
	staffID uuid.UUID,
	date types.LocalDate,
	dayWindow domain.Interval,
) ([]domain.Interval, windowSource, error) {
	overrides, err := uc.repos.BlockedTimes.GetOverrides(ctx, staffID, dayWindow)
	if err != nil {
		return nil, windowsNone, uc.sourceFailed(SourceOverrides, err)
	}

	if windows := uc.overrideWindows(staffID, date, overrides, dayWindow); len(windows) > 0 {
		return windows, windowsFromOverrides, nil
	}

	entries, err := uc.repos.Schedules.GetByStaff(ctx, staffID)
	if err != nil {
		return nil, windowsNone, uc.sourceFailed(SourceSchedules, err)
	}

	if len(entries) == 0 {
		if w := uc.cfg.DefaultDailyWindow; w != nil {
			window, err := uc.wallClockWindow(date, w.Start, w.End)
			if err != nil {
				return nil, windowsNone, err
			}
			return []domain.Interval{window}, windowsFromDefault, nil
		}
		return []domain.Interval{}, windowsNone, nil
	}

	windows := make([]domain.Interval, 0, len(entries))
	weekday := date.Weekday()
	for _, entry := range entries {
		if entry.Weekday != weekday {
			continue
		}
		if !entry.IsValid() {
			uc.logger.Warn("GetAvailableSlots: skipping schedule entry id=%s with %s >= %s",
				entry.ID, entry.StartTime, entry.EndTime)
			continue
		}
		window, err := uc.wallClockWindow(date, entry.StartTime, entry.EndTime)
		if err != nil {
			return nil, windowsNone, err
		}
		windows = append(windows, window)
	}

	if len(windows) == 0 {
		return []domain.Interval{}, windowsNone, nil
	}

	return domain.Merge(windows), windowsFromWeekly, nil
}

// overrideWindows объединение переопределений на дату, обрезанных по границам дня.
// Дата переопределения - локальная дата его начала; строки других дат,
// заходящие в запрошенный день через полночь, не учитываются.
func (uc *UseCase) overrideWindows(
	staffID uuid.UUID,
	date types.LocalDate,
	rows []domain.BlockedTime,
	dayWindow domain.Interval,
) []domain.Interval {
	intervals := make([]domain.Interval, 0, len(rows))
	for _, row := range rows {
		if !row.IsAvailableSlot {
			continue
		}
		if row.Interval().IsEmpty() {
			uc.logger.Warn("GetAvailableSlots: skipping override id=%s with end <= start", row.ID)
			continue
		}

		override := uc.toOverride(staffID, row)
		if !override.Date.Equal(date) {
			continue
		}

		clipped, ok := override.Interval.Clip(dayWindow)
		if !ok {
			continue
		}
		intervals = append(intervals, clipped)
	}

	return domain.Merge(intervals)
}

// toOverride привязывает строку blocked_times к дате салона
func (uc *UseCase) toOverride(staffID uuid.UUID, row domain.BlockedTime) domain.AvailableSlotOverride {
	date, _ := uc.cfg.Zone.ToLocal(row.Start)
	return domain.AvailableSlotOverride{
		StaffID:  staffID,
		Date:     date,
		Interval: row.Interval(),
	}
}

// wallClockWindow переводит время суток салона в интервал моментов времени
func (uc *UseCase) wallClockWindow(date types.LocalDate, start, end types.TimeOfDay) (domain.Interval, error) {
	from, err := uc.cfg.Zone.ToInstant(date, start)
	if err != nil {
		return domain.Interval{}, wrapZoneError(err)
	}
	to, err := uc.cfg.Zone.ToInstant(date, end)
	if err != nil {
		return domain.Interval{}, wrapZoneError(err)
	}

	window, err := domain.NewInterval(from, to)
	if err != nil {
		return domain.Interval{}, fmt.Errorf("%w: schedule window %s %s-%s: %v", ErrInternal, date, start, end, err)
	}
	return window, nil
}

func wrapZoneError(err error) error {
	if errors.Is(err, timezone.ErrAmbiguousTime) {
		return fmt.Errorf("%w: %w", ErrAmbiguousTime, err)
	}
	return fmt.Errorf("%w: %v", ErrInternal, err)
}
