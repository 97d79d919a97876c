package domain

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrInvalidInterval returned when start is not strictly before end
var ErrInvalidInterval = errors.New("domain: interval start must be before end")

// Interval half-open time range [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval creates an interval, enforcing Start < End
func NewInterval(start, end time.Time) (Interval, error) {
	if !start.Before(end) {
		return Interval{}, fmt.Errorf("%w: [%s, %s)", ErrInvalidInterval,
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return Interval{Start: start, End: end}, nil
}

// IsEmpty returns true if the interval has no length
func (i Interval) IsEmpty() bool {
	return !i.Start.Before(i.End)
}

// Duration returns the interval length
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Contains returns true if other lies entirely within i
func (i Interval) Contains(other Interval) bool {
	return !other.Start.Before(i.Start) && !other.End.After(i.End)
}

// Clip returns the part of i inside bounds; ok is false if nothing remains
func (i Interval) Clip(bounds Interval) (Interval, bool) {
	start := i.Start
	if bounds.Start.After(start) {
		start = bounds.Start
	}
	end := i.End
	if bounds.End.Before(end) {
		end = bounds.End
	}
	if !start.Before(end) {
		return Interval{}, false
	}
	return Interval{Start: start, End: end}, true
}

// Overlaps reports whether two half-open intervals share any instant.
// Touching endpoints do not overlap:
// - [11:30, 12:00) and [11:00, 11:30) do not overlap
// - [11:30, 12:00) and [11:20, 11:40) overlap
func Overlaps(a, b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// Merge sorts intervals and coalesces overlapping and touching ones.
// Empty intervals are dropped. The input slice is not modified.
func Merge(intervals []Interval) []Interval {
	sorted := make([]Interval, 0, len(intervals))
	for _, in := range intervals {
		if !in.IsEmpty() {
			sorted = append(sorted, in)
		}
	}
	if len(sorted) == 0 {
		return []Interval{}
	}

	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start.Equal(sorted[j].Start) {
			return sorted[i].End.Before(sorted[j].End)
		}
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := []Interval{sorted[0]}
	for _, in := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !in.Start.After(last.End) {
			if in.End.After(last.End) {
				last.End = in.End
			}
			continue
		}
		merged = append(merged, in)
	}

	return merged
}

// Subtract removes blockers from window and returns the free sub-windows in order.
// blockers must be the output of Merge (sorted, non-overlapping).
func Subtract(window Interval, blockers []Interval) []Interval {
	free := make([]Interval, 0, len(blockers)+1)
	if window.IsEmpty() {
		return free
	}

	cursor := window.Start
	for _, b := range blockers {
		if !b.End.After(cursor) {
			continue
		}
		if !b.Start.Before(window.End) {
			break
		}
		if b.Start.After(cursor) {
			free = append(free, Interval{Start: cursor, End: b.Start})
		}
		cursor = b.End
		if !cursor.Before(window.End) {
			return free
		}
	}

	if cursor.Before(window.End) {
		free = append(free, Interval{Start: cursor, End: window.End})
	}

	return free
}
