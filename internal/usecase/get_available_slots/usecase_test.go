package get_available_slots

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	serviceRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/service"
	"github.com/m04kA/SMC-SalonBooking/internal/timezone"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// ---- fakes ----

type fakeSchedules struct {
	entries []domain.WeeklySchedule
	err     error
	calls   int
}

func (f *fakeSchedules) GetByStaff(_ context.Context, _ uuid.UUID) ([]domain.WeeklySchedule, error) {
	f.calls++
	return f.entries, f.err
}

type fakeBlockedTimes struct {
	overrides    []domain.BlockedTime
	blocked      []domain.BlockedTime
	overridesErr error
	blockedErr   error
}

func (f *fakeBlockedTimes) GetOverrides(_ context.Context, _ uuid.UUID, _ domain.Interval) ([]domain.BlockedTime, error) {
	return f.overrides, f.overridesErr
}

func (f *fakeBlockedTimes) GetBlocked(_ context.Context, _ uuid.UUID, _ domain.Interval) ([]domain.BlockedTime, error) {
	return f.blocked, f.blockedErr
}

type fakeAppointments struct {
	rows []domain.Appointment
	err  error
}

func (f *fakeAppointments) GetActiveInRange(_ context.Context, _ uuid.UUID, _ domain.Interval) ([]domain.Appointment, error) {
	return f.rows, f.err
}

type fakeServices struct {
	services map[uuid.UUID]*domain.Service
	err      error
}

func (f *fakeServices) GetByID(_ context.Context, id uuid.UUID) (*domain.Service, error) {
	if f.err != nil {
		return nil, f.err
	}
	svc, ok := f.services[id]
	if !ok {
		return nil, serviceRepo.ErrServiceNotFound
	}
	return svc, nil
}

type fakeMetrics struct {
	mu       sync.Mutex
	outcomes []string
	failures []string
}

func (f *fakeMetrics) ObserveAvailability(outcome string, _ int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes = append(f.outcomes, outcome)
}

func (f *fakeMetrics) ObserveSourceFailure(source string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = append(f.failures, source)
}

// ---- fixture ----

var (
	montevideo = timezone.MustLoad(timezone.DefaultTimezone)
	staffID    = uuid.MustParse("6f1c2a3e-8a7b-4c55-9a0e-1f2d3c4b5a69")
	// 2025-03-24 понедельник
	monday = types.LocalDate{Year: 2025, Month: time.March, Day: 24}
)

type fixture struct {
	schedules    *fakeSchedules
	blocked      *fakeBlockedTimes
	appointments *fakeAppointments
	guests       *fakeAppointments
	services     *fakeServices
	metrics      *fakeMetrics
	cfg          Config
	now          time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{
		schedules: &fakeSchedules{entries: []domain.WeeklySchedule{
			weekly(time.Monday, 9, 0, 18, 0),
		}},
		blocked:      &fakeBlockedTimes{},
		appointments: &fakeAppointments{},
		guests:       &fakeAppointments{},
		services:     &fakeServices{services: map[uuid.UUID]*domain.Service{}},
		metrics:      &fakeMetrics{},
		cfg: Config{
			Zone:                   montevideo,
			SlotGranularityMinutes: 30,
		},
		now: localAt(t, monday, 7, 30),
	}
}

func (f *fixture) useCase(t *testing.T) *UseCase {
	t.Helper()
	uc, err := NewUseCase(f.cfg, Repositories{
		Schedules:         f.schedules,
		BlockedTimes:      f.blocked,
		Appointments:      f.appointments,
		GuestAppointments: f.guests,
		Services:          f.services,
	}, f.metrics, logger.NewNop())
	require.NoError(t, err)
	return uc.WithTimeProvider(timezone.FixedClock{At: f.now})
}

func weekly(day time.Weekday, h1, m1, h2, m2 int) domain.WeeklySchedule {
	return domain.WeeklySchedule{
		ID:        uuid.New(),
		StaffID:   staffID,
		Weekday:   day,
		StartTime: types.MustTimeOfDay(h1, m1),
		EndTime:   types.MustTimeOfDay(h2, m2),
	}
}

func localAt(t *testing.T, date types.LocalDate, hour, minute int) time.Time {
	t.Helper()
	instant, err := montevideo.ToInstant(date, types.MustTimeOfDay(hour, minute))
	require.NoError(t, err)
	return instant
}

func localInterval(t *testing.T, date types.LocalDate, h1, m1, h2, m2 int) domain.Interval {
	t.Helper()
	return domain.Interval{Start: localAt(t, date, h1, m1), End: localAt(t, date, h2, m2)}
}

func appointment(t *testing.T, h1, m1, h2, m2 int, status domain.AppointmentStatus) domain.Appointment {
	t.Helper()
	in := localInterval(t, monday, h1, m1, h2, m2)
	return domain.Appointment{ID: uuid.New(), StaffID: staffID, Start: in.Start, End: in.End, Status: status}
}

func blockedTime(t *testing.T, h1, m1, h2, m2 int, override bool) domain.BlockedTime {
	t.Helper()
	in := localInterval(t, monday, h1, m1, h2, m2)
	return domain.BlockedTime{ID: uuid.New(), StaffID: staffID, Start: in.Start, End: in.End, IsAvailableSlot: override}
}

func request(duration int) *Request {
	return &Request{StaffID: staffID.String(), Date: monday, ServiceDurationMinutes: duration}
}

// startTimes локальные времена начала слотов "HH:MM"
func startTimes(slots []domain.Slot) []string {
	result := make([]string, 0, len(slots))
	for _, s := range slots {
		_, tod := montevideo.ToLocal(s.Start)
		result = append(result, tod.String())
	}
	return result
}

func halfHours(fromHour, fromMinute, toHour, toMinute int) []string {
	result := make([]string, 0)
	for m := fromHour*60 + fromMinute; m <= toHour*60+toMinute; m += 30 {
		result = append(result, types.MustTimeOfDay(m/60, m%60).String())
	}
	return result
}

// ---- scenarios ----

func TestExecute_FullWorkingDay(t *testing.T) {
	f := newFixture(t)

	resp, err := f.useCase(t).Execute(context.Background(), request(30))
	require.NoError(t, err)

	require.Len(t, resp.Slots, 18)
	assert.Equal(t, halfHours(9, 0, 17, 30), startTimes(resp.Slots))
	assert.Equal(t, staffID, resp.StaffID)
	assert.Equal(t, monday, resp.Date)
	assert.Equal(t, "America/Montevideo", resp.Timezone)
	assert.Equal(t, 30, resp.DurationMinutes)

	// 09:00 в Монтевидео (UTC-03:00) = 12:00Z
	assert.True(t, resp.Slots[0].Start.Equal(time.Date(2025, 3, 24, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, 30*time.Minute, resp.Slots[0].Duration())
	assert.Equal(t, []string{metrics.OutcomeSlots}, f.metrics.outcomes)
}

func TestExecute_ConfirmedAppointmentRemovesSlots(t *testing.T) {
	f := newFixture(t)
	f.appointments.rows = []domain.Appointment{appointment(t, 10, 0, 11, 0, domain.StatusConfirmed)}

	resp, err := f.useCase(t).Execute(context.Background(), request(30))
	require.NoError(t, err)

	got := startTimes(resp.Slots)
	assert.Len(t, got, 16)
	assert.NotContains(t, got, "10:00")
	assert.NotContains(t, got, "10:30")
	assert.Contains(t, got, "09:30")
	assert.Contains(t, got, "11:00")
}

func TestExecute_PastSlotsExcluded(t *testing.T) {
	f := newFixture(t)
	f.now = localAt(t, monday, 14, 5)

	resp, err := f.useCase(t).Execute(context.Background(), request(30))
	require.NoError(t, err)

	assert.Equal(t, halfHours(14, 30, 17, 30), startTimes(resp.Slots))
	for _, s := range resp.Slots {
		assert.True(t, s.Start.After(f.now))
	}
}

func TestExecute_SlotStartingExactlyNowIsExcluded(t *testing.T) {
	f := newFixture(t)
	f.now = localAt(t, monday, 14, 0)

	resp, err := f.useCase(t).Execute(context.Background(), request(30))
	require.NoError(t, err)
	assert.Equal(t, "14:30", startTimes(resp.Slots)[0])
}

func TestExecute_OverrideReplacesWeeklySchedule(t *testing.T) {
	f := newFixture(t)
	f.blocked.overrides = []domain.BlockedTime{blockedTime(t, 14, 0, 16, 0, true)}

	resp, err := f.useCase(t).Execute(context.Background(), request(30))
	require.NoError(t, err)

	assert.Equal(t, []string{"14:00", "14:30", "15:00", "15:30"}, startTimes(resp.Slots))
	assert.Equal(t, 0, f.schedules.calls, "weekly schedule must not be consulted when overrides exist")

	window := localInterval(t, monday, 14, 0, 16, 0)
	for _, s := range resp.Slots {
		assert.True(t, window.Contains(s.Interval()))
	}
}

func TestExecute_SplitOverridesAreMerged(t *testing.T) {
	f := newFixture(t)
	f.blocked.overrides = []domain.BlockedTime{
		blockedTime(t, 14, 30, 15, 0, true),
		blockedTime(t, 14, 0, 14, 30, true),
		blockedTime(t, 19, 0, 20, 0, true),
	}

	resp, err := f.useCase(t).Execute(context.Background(), request(60))
	require.NoError(t, err)

	// соседние окна склеиваются, часовой слот 14:00 помещается
	assert.Equal(t, []string{"14:00", "19:00"}, startTimes(resp.Slots))
}

func TestExecute_OverrideFromPreviousDay(t *testing.T) {
	sunday := monday.AddDays(-1)
	acrossMidnight := domain.BlockedTime{
		ID:              uuid.New(),
		StaffID:         staffID,
		Start:           localAt(t, sunday, 22, 0),
		End:             localAt(t, monday, 1, 0),
		IsAvailableSlot: true,
	}

	t.Run("does not replace the weekly schedule", func(t *testing.T) {
		f := newFixture(t)
		f.blocked.overrides = []domain.BlockedTime{acrossMidnight}

		resp, err := f.useCase(t).Execute(context.Background(), request(30))
		require.NoError(t, err)

		assert.Equal(t, halfHours(9, 0, 17, 30), startTimes(resp.Slots))
		assert.Equal(t, 1, f.schedules.calls)
	})

	t.Run("ignored next to an override for the date", func(t *testing.T) {
		f := newFixture(t)
		f.blocked.overrides = []domain.BlockedTime{
			acrossMidnight,
			{
				ID:              uuid.New(),
				StaffID:         staffID,
				Start:           localAt(t, monday, 23, 0),
				End:             localAt(t, monday.AddDays(1), 2, 0),
				IsAvailableSlot: true,
			},
		}

		resp, err := f.useCase(t).Execute(context.Background(), request(30))
		require.NoError(t, err)

		// переопределение понедельника обрезано полночью, воскресное не учитывается
		assert.Equal(t, []string{"23:00", "23:30"}, startTimes(resp.Slots))
		assert.Equal(t, 0, f.schedules.calls)
	})
}

func TestExecute_NoScheduleForWeekday(t *testing.T) {
	f := newFixture(t)
	f.schedules.entries = []domain.WeeklySchedule{weekly(time.Tuesday, 9, 0, 18, 0)}

	resp, err := f.useCase(t).Execute(context.Background(), request(30))
	require.NoError(t, err)
	require.NotNil(t, resp.Slots)
	assert.Empty(t, resp.Slots)
	assert.Equal(t, []string{metrics.OutcomeEmpty}, f.metrics.outcomes)
}

// ---- schedule resolution ----

func TestExecute_SplitShift(t *testing.T) {
	f := newFixture(t)
	f.schedules.entries = []domain.WeeklySchedule{
		weekly(time.Monday, 14, 0, 16, 0),
		weekly(time.Monday, 9, 0, 10, 0),
	}

	resp, err := f.useCase(t).Execute(context.Background(), request(30))
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:30", "14:00", "14:30", "15:00", "15:30"}, startTimes(resp.Slots))
}

func TestExecute_DefaultDailyWindow(t *testing.T) {
	t.Run("used when staff has no schedule at all", func(t *testing.T) {
		f := newFixture(t)
		f.schedules.entries = nil
		f.cfg.DefaultDailyWindow = &DailyWindow{Start: types.MustTimeOfDay(10, 0), End: types.MustTimeOfDay(12, 0)}

		resp, err := f.useCase(t).Execute(context.Background(), request(30))
		require.NoError(t, err)
		assert.Equal(t, []string{"10:00", "10:30", "11:00", "11:30"}, startTimes(resp.Slots))
	})

	t.Run("ignored when staff has a schedule for other days", func(t *testing.T) {
		f := newFixture(t)
		f.schedules.entries = []domain.WeeklySchedule{weekly(time.Friday, 9, 0, 18, 0)}
		f.cfg.DefaultDailyWindow = &DailyWindow{Start: types.MustTimeOfDay(10, 0), End: types.MustTimeOfDay(12, 0)}

		resp, err := f.useCase(t).Execute(context.Background(), request(30))
		require.NoError(t, err)
		assert.Empty(t, resp.Slots)
	})

	t.Run("empty result without default window", func(t *testing.T) {
		f := newFixture(t)
		f.schedules.entries = nil

		resp, err := f.useCase(t).Execute(context.Background(), request(30))
		require.NoError(t, err)
		assert.Empty(t, resp.Slots)
	})
}

func TestExecute_InvalidScheduleEntrySkipped(t *testing.T) {
	f := newFixture(t)
	f.schedules.entries = []domain.WeeklySchedule{
		weekly(time.Monday, 18, 0, 9, 0),
		weekly(time.Monday, 9, 0, 10, 0),
	}

	resp, err := f.useCase(t).Execute(context.Background(), request(30))
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:30"}, startTimes(resp.Slots))
}

func TestExecute_EndOfDaySchedule(t *testing.T) {
	f := newFixture(t)
	f.schedules.entries = []domain.WeeklySchedule{weekly(time.Monday, 23, 0, 24, 0)}

	resp, err := f.useCase(t).Execute(context.Background(), request(30))
	require.NoError(t, err)
	assert.Equal(t, []string{"23:00", "23:30"}, startTimes(resp.Slots))
}

func TestExecute_ScheduleInsideDSTGap(t *testing.T) {
	f := newFixture(t)
	ny := timezone.MustLoad("America/New_York")
	sunday := types.LocalDate{Year: 2025, Month: time.March, Day: 9}

	f.cfg.Zone = ny
	f.now = time.Date(2025, 3, 8, 12, 0, 0, 0, time.UTC)
	f.schedules.entries = []domain.WeeklySchedule{weekly(time.Sunday, 2, 30, 5, 0)}

	_, err := f.useCase(t).Execute(context.Background(), &Request{
		StaffID: staffID.String(), Date: sunday, ServiceDurationMinutes: 30,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAmbiguousTime)

	var ambiguous *timezone.AmbiguousTimeError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, "02:30", ambiguous.Time.String())
	assert.Equal(t, []string{metrics.OutcomeInvalid}, f.metrics.outcomes)
}

func TestExecute_ScheduleInsideRepeatedDSTHour(t *testing.T) {
	f := newFixture(t)
	ny := timezone.MustLoad("America/New_York")
	sunday := types.LocalDate{Year: 2025, Month: time.November, Day: 2}

	f.cfg.Zone = ny
	f.now = time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC)
	f.schedules.entries = []domain.WeeklySchedule{weekly(time.Sunday, 1, 30, 4, 0)}

	resp, err := f.useCase(t).Execute(context.Background(), &Request{
		StaffID: staffID.String(), Date: sunday, ServiceDurationMinutes: 30,
	})
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrAmbiguousTime)

	var ambiguous *timezone.AmbiguousTimeError
	require.ErrorAs(t, err, &ambiguous)
	assert.True(t, ambiguous.Repeated)
	assert.Equal(t, "01:30", ambiguous.Time.String())
}

func TestExecute_ShortDSTDay(t *testing.T) {
	f := newFixture(t)
	ny := timezone.MustLoad("America/New_York")
	sunday := types.LocalDate{Year: 2025, Month: time.March, Day: 9}

	f.cfg.Zone = ny
	f.now = time.Date(2025, 3, 8, 12, 0, 0, 0, time.UTC)
	f.schedules.entries = []domain.WeeklySchedule{weekly(time.Sunday, 1, 0, 4, 0)}

	resp, err := f.useCase(t).Execute(context.Background(), &Request{
		StaffID: staffID.String(), Date: sunday, ServiceDurationMinutes: 60,
	})
	require.NoError(t, err)

	// 01:00 EST .. 04:00 EDT = два реальных часа
	require.Len(t, resp.Slots, 2)
	assert.True(t, resp.Slots[0].Start.Equal(time.Date(2025, 3, 9, 6, 0, 0, 0, time.UTC)))
	assert.True(t, resp.Slots[1].Start.Equal(time.Date(2025, 3, 9, 7, 0, 0, 0, time.UTC)))
}

// ---- occupancy ----

func TestExecute_AllOccupancySourcesApply(t *testing.T) {
	f := newFixture(t)
	f.schedules.entries = []domain.WeeklySchedule{weekly(time.Monday, 9, 0, 13, 0)}
	f.appointments.rows = []domain.Appointment{appointment(t, 9, 0, 9, 30, domain.StatusPending)}
	guest := appointment(t, 10, 0, 10, 30, domain.StatusConfirmed)
	guest.Guest = true
	f.guests.rows = []domain.Appointment{guest}
	f.blocked.blocked = []domain.BlockedTime{blockedTime(t, 11, 0, 12, 0, false)}

	resp, err := f.useCase(t).Execute(context.Background(), request(30))
	require.NoError(t, err)
	assert.Equal(t, []string{"09:30", "10:30", "12:00", "12:30"}, startTimes(resp.Slots))
}

func TestExecute_CancelledAndCorruptRowsIgnored(t *testing.T) {
	f := newFixture(t)
	f.schedules.entries = []domain.WeeklySchedule{weekly(time.Monday, 9, 0, 11, 0)}

	corrupt := appointment(t, 10, 0, 10, 30, domain.StatusConfirmed)
	corrupt.End = corrupt.Start.Add(-time.Hour)
	f.appointments.rows = []domain.Appointment{
		appointment(t, 9, 0, 10, 0, domain.StatusCancelled),
		corrupt,
	}
	f.blocked.blocked = []domain.BlockedTime{blockedTime(t, 9, 0, 11, 0, true)}

	resp, err := f.useCase(t).Execute(context.Background(), request(30))
	require.NoError(t, err)
	assert.Equal(t, halfHours(9, 0, 10, 30), startTimes(resp.Slots))
}

func TestExecute_OccupancySpanningMidnight(t *testing.T) {
	f := newFixture(t)
	f.schedules.entries = []domain.WeeklySchedule{weekly(time.Monday, 0, 0, 2, 0)}
	f.now = localAt(t, monday.AddDays(-1), 12, 0)
	f.blocked.blocked = []domain.BlockedTime{{
		ID:    uuid.New(),
		Start: localAt(t, monday.AddDays(-1), 23, 0),
		End:   localAt(t, monday, 1, 0),
	}}

	resp, err := f.useCase(t).Execute(context.Background(), request(30))
	require.NoError(t, err)
	assert.Equal(t, []string{"01:00", "01:30"}, startTimes(resp.Slots))
}

func TestExecute_SourceUnavailable(t *testing.T) {
	errDB := errors.New("connection refused")

	tests := []struct {
		name   string
		setup  func(f *fixture)
		source Source
	}{
		{name: "appointments", setup: func(f *fixture) { f.appointments.err = errDB }, source: SourceAppointments},
		{name: "guest appointments", setup: func(f *fixture) { f.guests.err = errDB }, source: SourceGuestAppointments},
		{name: "blocked times", setup: func(f *fixture) { f.blocked.blockedErr = errDB }, source: SourceBlockedTimes},
		{name: "overrides", setup: func(f *fixture) { f.blocked.overridesErr = errDB }, source: SourceOverrides},
		{name: "schedules", setup: func(f *fixture) { f.schedules.err = errDB }, source: SourceSchedules},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.appointments.rows = []domain.Appointment{appointment(t, 10, 0, 11, 0, domain.StatusConfirmed)}
			tt.setup(f)

			resp, err := f.useCase(t).Execute(context.Background(), request(30))
			require.Error(t, err)
			assert.Nil(t, resp, "partial results must never be returned")

			assert.ErrorIs(t, err, ErrSourceUnavailable)
			assert.ErrorIs(t, err, errDB)

			var sourceErr *SourceUnavailableError
			require.ErrorAs(t, err, &sourceErr)
			assert.Equal(t, tt.source, sourceErr.Source)

			assert.Equal(t, []string{string(tt.source)}, f.metrics.failures)
			assert.Equal(t, []string{metrics.OutcomeUnavailable}, f.metrics.outcomes)
		})
	}
}

// ---- services ----

func TestExecute_DurationFromService(t *testing.T) {
	f := newFixture(t)
	svcID := uuid.New()
	f.services.services[svcID] = &domain.Service{ID: svcID, Name: "Coloring", DurationMinutes: 60}
	f.schedules.entries = []domain.WeeklySchedule{weekly(time.Monday, 9, 0, 12, 0)}

	raw := svcID.String()
	resp, err := f.useCase(t).Execute(context.Background(), &Request{StaffID: staffID.String(), Date: monday, ServiceID: &raw})
	require.NoError(t, err)

	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, []string{"09:00", "10:00", "11:00"}, startTimes(resp.Slots))
}

func TestExecute_ServiceErrors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		raw := uuid.NewString()

		_, err := f.useCase(t).Execute(context.Background(), &Request{StaffID: staffID.String(), Date: monday, ServiceID: &raw})
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("catalogue unavailable", func(t *testing.T) {
		f := newFixture(t)
		f.services.err = errors.New("timeout")
		raw := uuid.NewString()

		_, err := f.useCase(t).Execute(context.Background(), &Request{StaffID: staffID.String(), Date: monday, ServiceID: &raw})
		var sourceErr *SourceUnavailableError
		require.ErrorAs(t, err, &sourceErr)
		assert.Equal(t, SourceServices, sourceErr.Source)
	})

	t.Run("corrupt duration", func(t *testing.T) {
		f := newFixture(t)
		svcID := uuid.New()
		f.services.services[svcID] = &domain.Service{ID: svcID, DurationMinutes: 0}
		raw := svcID.String()

		_, err := f.useCase(t).Execute(context.Background(), &Request{StaffID: staffID.String(), Date: monday, ServiceID: &raw})
		assert.ErrorIs(t, err, ErrInternal)
	})
}

// ---- validation ----

func TestExecute_InvalidRequest(t *testing.T) {
	svc := uuid.NewString()
	badSvc := "svc-1"

	tests := []struct {
		name   string
		req    *Request
		mutate func(f *fixture)
	}{
		{name: "nil request", req: nil},
		{name: "empty staff id", req: &Request{Date: monday, ServiceDurationMinutes: 30}},
		{name: "malformed staff id", req: &Request{StaffID: "42", Date: monday, ServiceDurationMinutes: 30}},
		{name: "nil staff uuid", req: &Request{StaffID: uuid.Nil.String(), Date: monday, ServiceDurationMinutes: 30}},
		{name: "zero date", req: &Request{StaffID: staffID.String(), ServiceDurationMinutes: 30}},
		{name: "zero duration", req: request(0)},
		{name: "negative duration", req: request(-30)},
		{name: "duration too long", req: request(24 * 60)},
		{name: "duration and service", req: &Request{StaffID: staffID.String(), Date: monday, ServiceDurationMinutes: 30, ServiceID: &svc}},
		{name: "malformed service id", req: &Request{StaffID: staffID.String(), Date: monday, ServiceID: &badSvc}},
		{
			name:   "date in the past",
			req:    request(30),
			mutate: func(f *fixture) { f.now = localAt(t, monday.AddDays(1), 9, 0) },
		},
		{
			name: "date beyond max advance days",
			req:  request(30),
			mutate: func(f *fixture) {
				f.cfg.MaxAdvanceDays = 7
				f.now = localAt(t, monday.AddDays(-8), 9, 0)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.mutate != nil {
				tt.mutate(f)
			}

			resp, err := f.useCase(t).Execute(context.Background(), tt.req)
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, []string{metrics.OutcomeInvalid}, f.metrics.outcomes)
		})
	}
}

func TestExecute_TodayInSalonZone(t *testing.T) {
	f := newFixture(t)
	// 01:30Z 25-го: в Монтевидео еще 24-е, дата не в прошлом
	f.now = time.Date(2025, 3, 25, 1, 30, 0, 0, time.UTC)
	f.schedules.entries = []domain.WeeklySchedule{weekly(time.Monday, 20, 0, 24, 0)}

	resp, err := f.useCase(t).Execute(context.Background(), request(30))
	require.NoError(t, err)
	assert.Equal(t, []string{"23:00", "23:30"}, startTimes(resp.Slots))
}

func TestExecute_MaxAdvanceDaysBoundary(t *testing.T) {
	f := newFixture(t)
	f.cfg.MaxAdvanceDays = 7
	f.now = localAt(t, monday.AddDays(-7), 9, 0)

	_, err := f.useCase(t).Execute(context.Background(), request(30))
	assert.NoError(t, err)
}

func TestExecute_MinBookingNotice(t *testing.T) {
	f := newFixture(t)
	f.cfg.MinBookingNoticeMinutes = 60
	f.now = localAt(t, monday, 14, 5)

	resp, err := f.useCase(t).Execute(context.Background(), request(30))
	require.NoError(t, err)
	assert.Equal(t, halfHours(15, 30, 17, 30), startTimes(resp.Slots))
}

func TestNewUseCase_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *Config)
	}{
		{name: "no zone", mutate: func(cfg *Config) { cfg.Zone = nil }},
		{name: "zero granularity", mutate: func(cfg *Config) { cfg.SlotGranularityMinutes = 0 }},
		{name: "negative notice", mutate: func(cfg *Config) { cfg.MinBookingNoticeMinutes = -5 }},
		{name: "negative advance", mutate: func(cfg *Config) { cfg.MaxAdvanceDays = -1 }},
		{name: "empty default window", mutate: func(cfg *Config) {
			cfg.DefaultDailyWindow = &DailyWindow{Start: types.MustTimeOfDay(12, 0), End: types.MustTimeOfDay(12, 0)}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.mutate(&f.cfg)

			_, err := NewUseCase(f.cfg, Repositories{
				Schedules:         f.schedules,
				BlockedTimes:      f.blocked,
				Appointments:      f.appointments,
				GuestAppointments: f.guests,
				Services:          f.services,
			}, nil, logger.NewNop())
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	_, err := NewUseCase(newFixture(t).cfg, Repositories{}, nil, logger.NewNop())
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// ---- properties ----

func TestExecute_Properties(t *testing.T) {
	f := newFixture(t)
	f.cfg.SlotGranularityMinutes = 15
	f.now = localAt(t, monday, 10, 20)
	f.schedules.entries = []domain.WeeklySchedule{
		weekly(time.Monday, 9, 0, 13, 0),
		weekly(time.Monday, 12, 30, 19, 0),
	}
	f.appointments.rows = []domain.Appointment{
		appointment(t, 11, 10, 11, 50, domain.StatusConfirmed),
		appointment(t, 15, 0, 15, 45, domain.StatusPending),
	}
	f.guests.rows = []domain.Appointment{appointment(t, 11, 40, 12, 20, domain.StatusConfirmed)}
	f.blocked.blocked = []domain.BlockedTime{blockedTime(t, 17, 5, 17, 35, false)}

	uc := f.useCase(t)
	first, err := uc.Execute(context.Background(), request(45))
	require.NoError(t, err)
	require.NotEmpty(t, first.Slots)

	windows := domain.Merge([]domain.Interval{
		localInterval(t, monday, 9, 0, 13, 0),
		localInterval(t, monday, 12, 30, 19, 0),
	})
	occupied := []domain.Interval{
		localInterval(t, monday, 11, 10, 11, 50),
		localInterval(t, monday, 15, 0, 15, 45),
		localInterval(t, monday, 11, 40, 12, 20),
		localInterval(t, monday, 17, 5, 17, 35),
	}

	for i, s := range first.Slots {
		assert.True(t, s.Start.After(f.now), "slot %d starts in the past", i)
		assert.Equal(t, 45*time.Minute, s.Duration())

		contained := false
		for _, w := range windows {
			if w.Contains(s.Interval()) {
				contained = true
			}
		}
		assert.True(t, contained, "slot %d is outside working windows", i)

		for _, o := range occupied {
			assert.False(t, domain.Overlaps(s.Interval(), o), "slot %d overlaps occupancy", i)
		}

		if i > 0 {
			prev := first.Slots[i-1]
			assert.True(t, prev.Start.Before(s.Start), "slots must be ordered")
			assert.False(t, domain.Overlaps(prev.Interval(), s.Interval()), "slots %d and %d overlap", i-1, i)
		}
	}

	second, err := uc.Execute(context.Background(), request(45))
	require.NoError(t, err)
	assert.Equal(t, first.Slots, second.Slots, "identical inputs must give identical output")
}
