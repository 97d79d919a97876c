package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

// DateFormat формат календарной даты YYYY-MM-DD
const DateFormat = "2006-01-02"

var (
	// ErrInvalidDate возвращается при некорректной календарной дате
	ErrInvalidDate = errors.New("types: invalid date")
)

// LocalDate календарный день без времени и часового пояса.
// Интерпретируется только вместе с часовым поясом салона.
type LocalDate struct {
	Year  int
	Month time.Month
	Day   int
}

// NewLocalDate создает дату и проверяет, что она существует в календаре
func NewLocalDate(year int, month time.Month, day int) (LocalDate, error) {
	d := LocalDate{Year: year, Month: month, Day: day}
	if year < 1 || year > 9999 {
		return LocalDate{}, fmt.Errorf("%w: year out of range: %d", ErrInvalidDate, year)
	}
	// time.Date нормализует 31 февраля в 3 марта, поэтому сравниваем обратно
	norm := time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
	if norm.Year() != year || norm.Month() != month || norm.Day() != day {
		return LocalDate{}, fmt.Errorf("%w: %s", ErrInvalidDate, d)
	}
	return d, nil
}

// ParseLocalDate разбирает строку формата YYYY-MM-DD без каких-либо смещений
func ParseLocalDate(s string) (LocalDate, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return LocalDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return LocalDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// LocalDateOf возвращает календарную дату момента времени в его собственной локации
func LocalDateOf(t time.Time) LocalDate {
	y, m, d := t.Date()
	return LocalDate{Year: y, Month: m, Day: d}
}

// IsZero true для нулевого значения
func (d LocalDate) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Weekday день недели календарной даты (не зависит от часового пояса)
func (d LocalDate) Weekday() time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC).Weekday()
}

// AddDays сдвигает дату на n календарных дней
func (d LocalDate) AddDays(n int) LocalDate {
	return LocalDateOf(time.Date(d.Year, d.Month, d.Day+n, 12, 0, 0, 0, time.UTC))
}

// Before сравнивает даты
func (d LocalDate) Before(other LocalDate) bool {
	return d.ordinal() < other.ordinal()
}

// After сравнивает даты
func (d LocalDate) After(other LocalDate) bool {
	return d.ordinal() > other.ordinal()
}

// Equal сравнивает даты
func (d LocalDate) Equal(other LocalDate) bool {
	return d == other
}

func (d LocalDate) ordinal() int {
	return d.Year*10000 + int(d.Month)*100 + d.Day
}

// String возвращает дату в формате YYYY-MM-DD
func (d LocalDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Scan реализует sql.Scanner для столбцов типа date
func (d *LocalDate) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		// Для date драйвер возвращает полночь UTC, смещение не применяем
		*d = LocalDateOf(v)
		return nil
	case string:
		parsed, err := ParseLocalDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		parsed, err := ParseLocalDate(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidDate, src)
	}
}

// Value реализует driver.Valuer. Дата уходит в БД строкой, чтобы драйвер не
// добавил к ней смещение хоста.
func (d LocalDate) Value() (driver.Value, error) {
	return d.String(), nil
}
