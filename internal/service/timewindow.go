package service

import "time"

const (
	// RoomBuffer is the margin added around a booking when checking room
	// conflicts, so rooms get transition time between meetings.
	RoomBuffer = 15 * time.Minute

	// MinDuration and MaxDuration bound a single booking.
	MinDuration = 15 * time.Minute
	MaxDuration = 8 * time.Hour

	// CreationGrace allows bookings to start slightly in the past, absorbing
	// clock skew and slow form submission.
	CreationGrace = 5 * time.Minute

	// BusinessOpenHour and BusinessCloseHour bound bookable hours. A meeting
	// may end exactly at close but not after it.
	BusinessOpenHour  = 9
	BusinessCloseHour = 18

	// UpdateGrace is how far past its start a meeting may still be edited.
	UpdateGrace = 15 * time.Minute
)

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Zero-length intervals never overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// WithBuffer widens an interval by buffer on each side.
func WithBuffer(start, end time.Time, buffer time.Duration) (time.Time, time.Time) {
	return start.Add(-buffer), end.Add(buffer)
}
