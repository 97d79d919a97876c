package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// generateSlots нарезает слоты в свободных частях рабочих окон.
//
// Для каждого окна из него вычитается занятость (occupancy должна быть результатом domain.Merge).
// В каждом свободном подокне курсор идет от начала подокна с шагом granularity;
// предлагается слот [cursor, cursor+duration), который:
//   - отбрасывается, если не помещается целиком в подокно;
//   - отбрасывается, если cursor <= notBefore (now + минимальное время до записи);
//   - отбрасывается, если пересекается с уже выданным слотом (duration > granularity).
//
// Курсор всегда сдвигается на granularity, а не на duration.
// Результат упорядочен по началу и не содержит пересекающихся слотов.
func generateSlots(
	windows []domain.Interval,
	occupancy []domain.Interval,
	duration time.Duration,
	granularity time.Duration,
	notBefore time.Time,
) []domain.Slot {
	slots := make([]domain.Slot, 0)
	if duration <= 0 || granularity <= 0 {
		return slots
	}

	var lastEnd time.Time

	for _, window := range windows {
		for _, free := range domain.Subtract(window, occupancy) {
			for cursor := free.Start; cursor.Before(free.End); cursor = cursor.Add(granularity) {
				end := cursor.Add(duration)

				// Слот должен целиком помещаться в свободное подокно
				if end.After(free.End) {
					break
				}

				// Прошедшие слоты не предлагаются
				if !cursor.After(notBefore) {
					continue
				}

				// Не пересекаемся с предыдущим выданным слотом
				if cursor.Before(lastEnd) {
					continue
				}

				slots = append(slots, domain.Slot{Start: cursor, End: end})
				lastEnd = end
			}
		}
	}

	return slots
}
