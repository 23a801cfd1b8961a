package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidTimeRange     = errors.New("start time must be before end time")
	ErrPastBooking          = errors.New("booking starts in the past")
	ErrDurationTooShort     = errors.New("booking is shorter than 15 minutes")
	ErrDurationTooLong      = errors.New("booking is longer than 8 hours")
	ErrOutsideBusinessHours = errors.New("booking is outside business hours (09:00-18:00)")
	ErrRoomNotFound         = errors.New("room not found")
	ErrRoomUnavailable      = errors.New("room is not available for booking")
	ErrRoomConflict         = errors.New("room is already booked for this time")
	ErrAttendeeConflict     = errors.New("attendee has a conflicting meeting")
	ErrNotFound             = errors.New("not found")
	ErrForbidden            = errors.New("requester is not allowed to perform this action")
	ErrInvalidState         = errors.New("operation is not valid for the current status")
	ErrAlreadyProcessed     = errors.New("approval has already been processed")
	ErrApprovalExists       = errors.New("booking already has a pending approval")
	ErrMeetingStarted       = errors.New("meeting has already started")
)

// RoomConflictError carries the first conflicting booking so callers can
// tell the requester what they collided with.
type RoomConflictError struct {
	Conflict RoomConflict
}

func (e *RoomConflictError) Error() string {
	return fmt.Sprintf("room is already booked: %q (%s) from %s to %s",
		e.Conflict.Title, e.Conflict.OrganizerName,
		e.Conflict.StartTime.Format("15:04"), e.Conflict.EndTime.Format("15:04"))
}

func (e *RoomConflictError) Unwrap() error { return ErrRoomConflict }

// AttendeeConflictError lists every user who is double-booked by the
// proposed time.
type AttendeeConflictError struct {
	Conflicts []AttendeeConflict
}

func (e *AttendeeConflictError) Error() string {
	names := make([]string, 0, len(e.Conflicts))
	seen := make(map[string]bool, len(e.Conflicts))
	for _, c := range e.Conflicts {
		if seen[c.UserID] {
			continue
		}
		seen[c.UserID] = true
		names = append(names, c.UserName)
	}
	return "attendees have conflicting meetings: " + strings.Join(names, ", ")
}

func (e *AttendeeConflictError) Unwrap() error { return ErrAttendeeConflict }
