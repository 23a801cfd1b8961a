package dto

import (
	"time"

	"github.com/meetsync/reservation-service/internal/models"
	"github.com/meetsync/reservation-service/internal/service"
)

type AttendeeResponse struct {
	ID     uint                  `json:"id"`
	UserID string                `json:"user_id"`
	Status models.AttendeeStatus `json:"status"`
	Role   string                `json:"role"`
}

type BookingResponse struct {
	ID               uint                 `json:"id"`
	Reference        string               `json:"reference"`
	RoomID           uint                 `json:"room_id"`
	OrganizerID      string               `json:"organizer_id"`
	Title            string               `json:"title"`
	StartTime        time.Time            `json:"start_time"`
	EndTime          time.Time            `json:"end_time"`
	Status           models.BookingStatus `json:"status"`
	IsEmergency      bool                 `json:"is_emergency"`
	RequiresApproval bool                 `json:"requires_approval"`
	ActualEndTime    *time.Time           `json:"actual_end_time,omitempty"`
	JoinURL          *string              `json:"join_url,omitempty"`
	Attendees        []AttendeeResponse   `json:"attendees"`
	CreatedAt        time.Time            `json:"created_at"`
}

type ApprovalResponse struct {
	ID              uint                  `json:"id"`
	BookingID       uint                  `json:"booking_id"`
	RequesterID     string                `json:"requester_id"`
	ApproverID      *string               `json:"approver_id,omitempty"`
	Status          models.ApprovalStatus `json:"status"`
	Comments        string                `json:"comments,omitempty"`
	SuggestedRoomID *uint                 `json:"suggested_room_id,omitempty"`
	RequestedAt     time.Time             `json:"requested_at"`
	ApprovedAt      *time.Time            `json:"approved_at,omitempty"`
}

type RoomResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Location    string `json:"location"`
	Capacity    int    `json:"capacity"`
	IsAvailable bool   `json:"is_available"`
}

// ConflictResponse is the 409 body carrying what the request collided with.
type ConflictResponse struct {
	Message           string                     `json:"message"`
	RoomConflict      *service.RoomConflict      `json:"room_conflict,omitempty"`
	AttendeeConflicts []service.AttendeeConflict `json:"attendee_conflicts,omitempty"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func ToAttendeeResponse(a *models.Attendee) AttendeeResponse {
	return AttendeeResponse{
		ID:     a.ID,
		UserID: a.UserID,
		Status: a.Status,
		Role:   a.Role,
	}
}

func ToBookingResponse(b *models.Booking) BookingResponse {
	attendees := make([]AttendeeResponse, len(b.Attendees))
	for i := range b.Attendees {
		attendees[i] = ToAttendeeResponse(&b.Attendees[i])
	}
	return BookingResponse{
		ID:               b.ID,
		Reference:        b.Reference,
		RoomID:           b.RoomID,
		OrganizerID:      b.OrganizerID,
		Title:            b.Title,
		StartTime:        b.StartTime,
		EndTime:          b.EndTime,
		Status:           b.Status,
		IsEmergency:      b.IsEmergency,
		RequiresApproval: b.RequiresApproval,
		ActualEndTime:    b.ActualEndTime,
		JoinURL:          b.JoinURL,
		Attendees:        attendees,
		CreatedAt:        b.CreatedAt,
	}
}

func ToApprovalResponse(a *models.Approval) ApprovalResponse {
	return ApprovalResponse{
		ID:              a.ID,
		BookingID:       a.BookingID,
		RequesterID:     a.RequesterID,
		ApproverID:      a.ApproverID,
		Status:          a.Status,
		Comments:        a.Comments,
		SuggestedRoomID: a.SuggestedRoomID,
		RequestedAt:     a.RequestedAt,
		ApprovedAt:      a.ApprovedAt,
	}
}

func ToRoomResponse(r *models.Room) RoomResponse {
	return RoomResponse{
		ID:          r.ID,
		Name:        r.Name,
		Location:    r.Location,
		Capacity:    r.Capacity,
		IsAvailable: r.IsAvailable,
	}
}
