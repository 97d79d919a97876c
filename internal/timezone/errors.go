package timezone

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

var (
	// ErrAmbiguousTime возвращается, когда настенное время не соответствует ровно одному моменту
	ErrAmbiguousTime = errors.New("timezone: ambiguous wall-clock time")

	// ErrInvalidInstant возвращается при нераспознанной строке даты-времени
	ErrInvalidInstant = errors.New("timezone: invalid date-time string")

	// ErrUnknownTimezone возвращается при неизвестном идентификаторе часового пояса
	ErrUnknownTimezone = errors.New("timezone: unknown timezone")
)

// AmbiguousTimeError настенное время не соответствует ровно одному моменту:
// попадает в дыру перехода на летнее время (Repeated = false)
// или встречается дважды при обратном переходе (Repeated = true)
type AmbiguousTimeError struct {
	Date     types.LocalDate
	Time     types.TimeOfDay
	Zone     string
	Repeated bool
}

func (e *AmbiguousTimeError) Error() string {
	if e.Repeated {
		return fmt.Sprintf("timezone: %s %s occurs twice in %s (DST overlap)", e.Date, e.Time, e.Zone)
	}
	return fmt.Sprintf("timezone: %s %s does not exist in %s (DST gap)", e.Date, e.Time, e.Zone)
}

// Is позволяет проверять ошибку через errors.Is(err, ErrAmbiguousTime)
func (e *AmbiguousTimeError) Is(target error) bool {
	return target == ErrAmbiguousTime
}
