package domain

// OccupancySource identifies where an occupancy range comes from
type OccupancySource string

const (
	OccupancyAppointment      OccupancySource = "appointment"
	OccupancyGuestAppointment OccupancySource = "guest_appointment"
	OccupancyBlockedTime      OccupancySource = "blocked_time"
)

// OccupancyRange time range during which a staff member is unavailable
type OccupancyRange struct {
	Interval Interval
	Source   OccupancySource
	SourceID string
}

// OccupancyIntervals extracts bare intervals from occupancy ranges
func OccupancyIntervals(ranges []OccupancyRange) []Interval {
	result := make([]Interval, 0, len(ranges))
	for _, r := range ranges {
		result = append(result, r.Interval)
	}
	return result
}
