package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const minutesPerDay = 24 * 60

var (
	// ErrInvalidTimeOfDay возвращается при некорректном формате времени суток
	ErrInvalidTimeOfDay = errors.New("types: invalid time of day")
)

// TimeOfDay время суток с точностью до минуты (HH:MM) без привязки к дате и часовому поясу.
// Значение 24:00 допустимо только как конец рабочего дня.
type TimeOfDay struct {
	minutes int
}

// NewTimeOfDay создает время суток из часов и минут
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 24 || minute < 0 || minute > 59 || (hour == 24 && minute != 0) {
		return TimeOfDay{}, fmt.Errorf("%w: %02d:%02d", ErrInvalidTimeOfDay, hour, minute)
	}
	return TimeOfDay{minutes: hour*60 + minute}, nil
}

// MustTimeOfDay как NewTimeOfDay, но паникует при ошибке. Для констант и тестов.
func MustTimeOfDay(hour, minute int) TimeOfDay {
	t, err := NewTimeOfDay(hour, minute)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseTimeOfDay разбирает строку формата "HH:MM" или "HH:MM:SS".
// Секунды допускаются только нулевые: столбцы time в БД хранят их всегда.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}

	values := make([]int, len(parts))
	for i, p := range parts {
		if len(p) != 2 {
			return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
		}
		values[i] = v
	}

	if len(values) == 3 && values[2] != 0 {
		return TimeOfDay{}, fmt.Errorf("%w: seconds are not supported: %q", ErrInvalidTimeOfDay, s)
	}

	return NewTimeOfDay(values[0], values[1])
}

// Hour возвращает час (0-24)
func (t TimeOfDay) Hour() int { return t.minutes / 60 }

// Minute возвращает минуты (0-59)
func (t TimeOfDay) Minute() int { return t.minutes % 60 }

// Minutes возвращает количество минут от полуночи
func (t TimeOfDay) Minutes() int { return t.minutes }

// IsEndOfDay true для 24:00
func (t TimeOfDay) IsEndOfDay() bool { return t.minutes == minutesPerDay }

// Before сравнивает два времени суток
func (t TimeOfDay) Before(other TimeOfDay) bool { return t.minutes < other.minutes }

// After сравнивает два времени суток
func (t TimeOfDay) After(other TimeOfDay) bool { return t.minutes > other.minutes }

// String возвращает время в формате "HH:MM"
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Scan реализует sql.Scanner для столбцов типа time
func (t *TimeOfDay) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		parsed, err := ParseTimeOfDay(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case []byte:
		parsed, err := ParseTimeOfDay(string(v))
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case time.Time:
		// lib/pq отдает time без даты как 0000-01-01 HH:MM:SS
		parsed, err := NewTimeOfDay(v.Hour(), v.Minute())
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case nil:
		return fmt.Errorf("%w: NULL", ErrInvalidTimeOfDay)
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidTimeOfDay, src)
	}
}

// Value реализует driver.Valuer
func (t TimeOfDay) Value() (driver.Value, error) {
	return t.String() + ":00", nil
}
