package dto

import "time"

type AttendeeRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role,omitempty"`
}

type CreateBookingRequest struct {
	RoomID      uint              `json:"room_id"`
	OrganizerID string            `json:"organizer_id"`
	Title       string            `json:"title"`
	StartTime   time.Time         `json:"start_time"`
	EndTime     time.Time         `json:"end_time"`
	IsEmergency bool              `json:"is_emergency"`
	Attendees   []AttendeeRequest `json:"attendees,omitempty"`
}

type UpdateBookingRequest struct {
	RoomID    uint              `json:"room_id"`
	Title     string            `json:"title"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time"`
	Attendees []AttendeeRequest `json:"attendees,omitempty"`
}

type EndMeetingRequest struct {
	RequesterID string `json:"requester_id"`
}

type ExtendMeetingRequest struct {
	RequesterID string    `json:"requester_id"`
	NewEndTime  time.Time `json:"new_end_time"`
}

type UpdateAttendeeRequest struct {
	UserID string `json:"user_id"`
	Status string `json:"status,omitempty"`
	Role   string `json:"role,omitempty"`
}

type CreateApprovalRequest struct {
	BookingID   uint   `json:"booking_id"`
	RequesterID string `json:"requester_id"`
}

type ApprovalDecisionRequest struct {
	ApproverID string `json:"approver_id"`
	Approve    bool   `json:"approve"`
	Comments   string `json:"comments,omitempty"`
}

type SuggestRoomRequest struct {
	ApproverID string `json:"approver_id"`
	RoomID     uint   `json:"room_id"`
	Comments   string `json:"comments,omitempty"`
}

type ApproveWithRoomRequest struct {
	ApproverID string `json:"approver_id"`
	RoomID     uint   `json:"room_id"`
}
