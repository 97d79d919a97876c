package domain

import "time"

// Slot bookable time range produced by the availability engine. Never persisted.
type Slot struct {
	Start time.Time
	End   time.Time
}

// Interval returns the slot as a half-open interval
func (s Slot) Interval() Interval {
	return Interval{Start: s.Start, End: s.End}
}

// Duration returns the slot length
func (s Slot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}
