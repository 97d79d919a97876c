package timezone

import (
	"fmt"
	"strings"
	"time"

	// встроенная база часовых поясов для хостов без zoneinfo
	_ "time/tzdata"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// DefaultTimezone часовой пояс салона по умолчанию
const DefaultTimezone = "America/Montevideo"

// Форматы строк без смещения: трактуются как настенное время салона
var bareLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Форматы строк с явным смещением: пересчитываются только арифметикой смещения
var offsetLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05-07",
	"2006-01-02T15:04:05-0700",
}

// Zone единственная точка преобразования настенного времени салона в моменты времени.
// Остальные компоненты работают только с time.Time, types.LocalDate и types.TimeOfDay.
type Zone struct {
	loc *time.Location
}

// Load загружает часовой пояс по идентификатору IANA
func Load(name string) (*Zone, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: empty timezone", ErrUnknownTimezone)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrUnknownTimezone, name, err)
	}
	return &Zone{loc: loc}, nil
}

// MustLoad как Load, но паникует при ошибке
func MustLoad(name string) *Zone {
	z, err := Load(name)
	if err != nil {
		panic(err)
	}
	return z
}

// Name идентификатор часового пояса
func (z *Zone) Name() string {
	return z.loc.String()
}

// Location возвращает *time.Location салона
func (z *Zone) Location() *time.Location {
	return z.loc
}

// ToInstant переводит дату и время суток салона в момент времени (UTC).
// Настенное время должно соответствовать ровно одному моменту: время в "дыре" перехода
// на летнее время и повторяющийся час обратного перехода отклоняются с AmbiguousTimeError.
func (z *Zone) ToInstant(date types.LocalDate, tod types.TimeOfDay) (time.Time, error) {
	if tod.IsEndOfDay() {
		// 24:00 = полночь следующего дня
		return z.ToInstant(date.AddDays(1), types.MustTimeOfDay(0, 0))
	}

	t := time.Date(date.Year, date.Month, date.Day, tod.Hour(), tod.Minute(), 0, 0, z.loc)

	// time.Date нормализует несуществующее время; настенное время должно сохраниться
	if t.Hour() != tod.Hour() || t.Minute() != tod.Minute() || t.Day() != date.Day {
		return time.Time{}, &AmbiguousTimeError{Date: date, Time: tod, Zone: z.Name()}
	}

	if z.occurrences(date, tod) > 1 {
		return time.Time{}, &AmbiguousTimeError{Date: date, Time: tod, Zone: z.Name(), Repeated: true}
	}

	return t.UTC(), nil
}

// occurrences сколько моментов времени имеют данное настенное время.
// Кандидаты - смещения пояса за сутки до, в момент и через сутки после.
func (z *Zone) occurrences(date types.LocalDate, tod types.TimeOfDay) int {
	wall := time.Date(date.Year, date.Month, date.Day, tod.Hour(), tod.Minute(), 0, 0, time.UTC)

	seen := make(map[int]struct{}, 3)
	count := 0
	for _, candidate := range []time.Time{wall.Add(-24 * time.Hour), wall, wall.Add(24 * time.Hour)} {
		_, offset := candidate.In(z.loc).Zone()
		if _, ok := seen[offset]; ok {
			continue
		}
		seen[offset] = struct{}{}

		instant := wall.Add(-time.Duration(offset) * time.Second)
		if _, actual := instant.In(z.loc).Zone(); actual == offset {
			count++
		}
	}
	return count
}

// ToLocal обратное преобразование: момент времени в дату и время суток салона
func (z *Zone) ToLocal(instant time.Time) (types.LocalDate, types.TimeOfDay) {
	local := instant.In(z.loc)
	return types.LocalDateOf(local), types.MustTimeOfDay(local.Hour(), local.Minute())
}

// In возвращает момент времени в локации салона (для форматирования ответов)
func (z *Zone) In(instant time.Time) time.Time {
	return instant.In(z.loc)
}

// ParseInstant разбирает строку даты-времени.
// Строка с явным смещением ("Z", "-03:00") переводится в момент времени без переинтерпретации.
// Строка без смещения трактуется как настенное время салона, но никогда не как UTC или время хоста.
func (z *Zone) ParseInstant(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty string", ErrInvalidInstant)
	}

	// RFC 3339: "-00:00" означает неизвестное локальное смещение, а не UTC
	if strings.HasSuffix(s, "-00:00") || strings.HasSuffix(s, "-0000") {
		return time.Time{}, fmt.Errorf("%w: unknown local offset in %q", ErrAmbiguousTime, raw)
	}

	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	for _, layout := range bareLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		date := types.LocalDateOf(t)
		if t.Second() != 0 || t.Nanosecond() != 0 {
			// Секунды сохраняем, но проверку дыры делаем по минутам
			base, err := z.ToInstant(date, types.MustTimeOfDay(t.Hour(), t.Minute()))
			if err != nil {
				return time.Time{}, err
			}
			return base.Add(time.Duration(t.Second())*time.Second + time.Duration(t.Nanosecond())), nil
		}
		return z.ToInstant(date, types.MustTimeOfDay(t.Hour(), t.Minute()))
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidInstant, raw)
}

// FromStored приводит значение колонки хранилища к моменту времени в UTC.
// timestamptz приходит как time.Time; текстовые колонки разбираются через ParseInstant.
func (z *Zone) FromStored(src interface{}) (time.Time, error) {
	switch v := src.(type) {
	case time.Time:
		return v.UTC(), nil
	case string:
		return z.ParseInstant(v)
	case []byte:
		return z.ParseInstant(string(v))
	case nil:
		return time.Time{}, fmt.Errorf("%w: NULL value", ErrInvalidInstant)
	default:
		return time.Time{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidInstant, src)
	}
}

// ParseDate разбирает дату YYYY-MM-DD. Смещения и время не допускаются.
func (z *Zone) ParseDate(raw string) (types.LocalDate, error) {
	return types.ParseLocalDate(strings.TrimSpace(raw))
}

// StartOfDay момент локальной полуночи указанной даты.
// Если полночь попадает в дыру перехода, началом дня считается первый существующий момент.
func (z *Zone) StartOfDay(date types.LocalDate) time.Time {
	t := time.Date(date.Year, date.Month, date.Day, 0, 0, 0, 0, z.loc)
	if t.Day() != date.Day {
		// полночь не существует, time.Date ушел назад на предыдущие сутки
		t = time.Date(date.Year, date.Month, date.Day, 1, 0, 0, 0, z.loc)
	}
	return t.UTC()
}

// DayWindow полуинтервал [локальная полночь, следующая локальная полночь).
// В дни перехода длится 23 или 25 часов.
func (z *Zone) DayWindow(date types.LocalDate) domain.Interval {
	return domain.Interval{
		Start: z.StartOfDay(date),
		End:   z.StartOfDay(date.AddDays(1)),
	}
}

// Today календарная дата момента времени в часовом поясе салона
func (z *Zone) Today(now time.Time) types.LocalDate {
	return types.LocalDateOf(now.In(z.loc))
}
