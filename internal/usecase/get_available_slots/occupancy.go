package get_available_slots

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// collectOccupancy собирает все интервалы занятости мастера за день.
// Три источника читаются параллельно; если хотя бы один не прочитан,
// возвращается SourceUnavailableError и результат не используется.
func (uc *UseCase) collectOccupancy(ctx context.Context, staffID uuid.UUID, dayWindow domain.Interval) ([]domain.OccupancyRange, error) {
	var (
		appointments      []domain.Appointment
		guestAppointments []domain.Appointment
		blocked           []domain.BlockedTime
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := uc.repos.Appointments.GetActiveInRange(gctx, staffID, dayWindow)
		if err != nil {
			return uc.sourceFailed(SourceAppointments, err)
		}
		appointments = rows
		return nil
	})

	g.Go(func() error {
		rows, err := uc.repos.GuestAppointments.GetActiveInRange(gctx, staffID, dayWindow)
		if err != nil {
			return uc.sourceFailed(SourceGuestAppointments, err)
		}
		guestAppointments = rows
		return nil
	})

	g.Go(func() error {
		rows, err := uc.repos.BlockedTimes.GetBlocked(gctx, staffID, dayWindow)
		if err != nil {
			return uc.sourceFailed(SourceBlockedTimes, err)
		}
		blocked = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	ranges := make([]domain.OccupancyRange, 0, len(appointments)+len(guestAppointments)+len(blocked))

	for _, appt := range appointments {
		ranges = uc.appendAppointment(ranges, appt, domain.OccupancyAppointment)
	}
	for _, appt := range guestAppointments {
		ranges = uc.appendAppointment(ranges, appt, domain.OccupancyGuestAppointment)
	}

	for _, bt := range blocked {
		// переопределения расписания не занимают время
		if bt.IsAvailableSlot {
			continue
		}
		if bt.Interval().IsEmpty() {
			uc.logger.Warn("GetAvailableSlots: skipping blocked time id=%s with end <= start", bt.ID)
			continue
		}
		ranges = append(ranges, domain.OccupancyRange{
			Interval: bt.Interval(),
			Source:   domain.OccupancyBlockedTime,
			SourceID: bt.ID.String(),
		})
	}

	return ranges, nil
}

func (uc *UseCase) appendAppointment(ranges []domain.OccupancyRange, appt domain.Appointment, source domain.OccupancySource) []domain.OccupancyRange {
	if !appt.IsActive() {
		return ranges
	}
	if appt.Interval().IsEmpty() {
		uc.logger.Warn("GetAvailableSlots: skipping %s id=%s with end <= start", source, appt.ID)
		return ranges
	}
	return append(ranges, domain.OccupancyRange{
		Interval: appt.Interval(),
		Source:   source,
		SourceID: appt.ID.String(),
	})
}

func (uc *UseCase) sourceFailed(source Source, err error) error {
	uc.metrics.ObserveSourceFailure(string(source))
	uc.logger.Error("GetAvailableSlots: failed to read %s: %v", source, err)
	return sourceUnavailable(source, err)
}
