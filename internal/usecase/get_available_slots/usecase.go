package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	serviceRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/service"
	"github.com/m04kA/SMC-SalonBooking/internal/timezone"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
)

// UseCase use case для получения доступных слотов мастера на дату
type UseCase struct {
	cfg          Config
	repos        Repositories
	timeProvider TimeProvider
	metrics      Metrics
	logger       Logger
}

// NewUseCase создает новый экземпляр use case.
// metrics может быть nil.
func NewUseCase(cfg Config, repos Repositories, m Metrics, logger Logger) (*UseCase, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	if repos.Schedules == nil || repos.BlockedTimes == nil || repos.Appointments == nil ||
		repos.GuestAppointments == nil || repos.Services == nil {
		return nil, fmt.Errorf("%w: all repositories are required", ErrInvalidInput)
	}

	if m == nil {
		m = nopMetrics{}
	}

	return &UseCase{
		cfg:          cfg,
		repos:        repos,
		timeProvider: timezone.SystemClock{},
		metrics:      m,
		logger:       logger,
	}, nil
}

// WithTimeProvider подменяет источник текущего времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Timezone часовой пояс салона
func (uc *UseCase) Timezone() *timezone.Zone {
	return uc.cfg.Zone
}

// Execute выполняет use case получения доступных слотов.
// Пустой список слотов (мастер не работает) не является ошибкой.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	resp, err := uc.execute(ctx, req)
	uc.observe(resp, err)
	return resp, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	staffID, serviceID, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	if serviceID != nil {
		uc.logger.Info("GetAvailableSlots: staff=%s, date=%s, service=%s", staffID, req.Date, *serviceID)
	} else {
		uc.logger.Info("GetAvailableSlots: staff=%s, date=%s, duration=%d", staffID, req.Date, req.ServiceDurationMinutes)
	}

	// 2. Текущее время фиксируется один раз на весь запрос
	now := uc.timeProvider.Now().UTC()
	today := uc.cfg.Zone.Today(now)

	// 3. Валидация даты относительно "сегодня" в часовом поясе салона
	if err := validateDate(req.Date, today, uc.cfg.MaxAdvanceDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 4. Длительность услуги
	durationMinutes := req.ServiceDurationMinutes
	if serviceID != nil {
		durationMinutes, err = uc.serviceDuration(ctx, *serviceID)
		if err != nil {
			return nil, err
		}
	}

	dayWindow := uc.cfg.Zone.DayWindow(req.Date)

	// 5. Занятость мастера за день
	occupancy, err := uc.collectOccupancy(ctx, staffID, dayWindow)
	if err != nil {
		return nil, err
	}

	// 6. Рабочие окна
	windows, source, err := uc.resolveWindows(ctx, staffID, req.Date, dayWindow)
	if err != nil {
		if errors.Is(err, ErrAmbiguousTime) {
			uc.logger.Warn("GetAvailableSlots: staff=%s date=%s: %v", staffID, req.Date, err)
		}
		return nil, err
	}

	resp := &Response{
		StaffID:         staffID,
		Date:            req.Date,
		Timezone:        uc.cfg.Zone.Name(),
		DurationMinutes: durationMinutes,
		Slots:           []domain.Slot{},
	}

	if len(windows) == 0 {
		uc.logger.Info("GetAvailableSlots: staff=%s does not work on %s", staffID, req.Date)
		return resp, nil
	}

	// 7. Нарезка слотов
	notBefore := now.Add(time.Duration(uc.cfg.MinBookingNoticeMinutes) * time.Minute)
	resp.Slots = generateSlots(
		windows,
		domain.Merge(domain.OccupancyIntervals(occupancy)),
		time.Duration(durationMinutes)*time.Minute,
		time.Duration(uc.cfg.SlotGranularityMinutes)*time.Minute,
		notBefore,
	)

	uc.logger.Info("GetAvailableSlots: generated %d slots for staff=%s, date=%s (windows=%d from %s, occupied=%d)",
		len(resp.Slots), staffID, req.Date, len(windows), source, len(occupancy))

	return resp, nil
}

// serviceDuration длительность услуги из каталога
func (uc *UseCase) serviceDuration(ctx context.Context, id uuid.UUID) (int, error) {
	svc, err := uc.repos.Services.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%s not found", id)
			return 0, fmt.Errorf("%w: id %s", ErrServiceNotFound, id)
		}
		return 0, uc.sourceFailed(SourceServices, err)
	}

	if err := validateDuration(svc.DurationMinutes); err != nil {
		uc.logger.Error("GetAvailableSlots: service id=%s has invalid duration: %v", id, err)
		return 0, fmt.Errorf("%w: service %s: %v", ErrInternal, id, err)
	}

	return svc.DurationMinutes, nil
}

func (uc *UseCase) observe(resp *Response, err error) {
	switch {
	case err == nil && len(resp.Slots) == 0:
		uc.metrics.ObserveAvailability(metrics.OutcomeEmpty, 0)
	case err == nil:
		uc.metrics.ObserveAvailability(metrics.OutcomeSlots, len(resp.Slots))
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrAmbiguousTime), errors.Is(err, ErrServiceNotFound):
		uc.metrics.ObserveAvailability(metrics.OutcomeInvalid, 0)
	case errors.Is(err, ErrSourceUnavailable):
		uc.metrics.ObserveAvailability(metrics.OutcomeUnavailable, 0)
	default:
		uc.metrics.ObserveAvailability(metrics.OutcomeError, 0)
	}
}
