package timezone

import "time"

// Clock источник текущего времени. Подменяется в тестах.
type Clock interface {
	Now() time.Time
}

// SystemClock реальные часы хоста. Возвращает момент в UTC, локальный пояс хоста не используется.
type SystemClock struct{}

// Now возвращает текущее время
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock часы, всегда возвращающие один и тот же момент
type FixedClock struct {
	At time.Time
}

// Now возвращает зафиксированный момент
func (c FixedClock) Now() time.Time {
	return c.At
}
