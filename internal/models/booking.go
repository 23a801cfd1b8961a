package models

import "time"

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusScheduled BookingStatus = "scheduled"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

type Booking struct {
	ID               uint          `gorm:"primaryKey" json:"id"`
	Reference        string        `gorm:"type:varchar(36);uniqueIndex;not null" json:"reference"`
	RoomID           uint          `gorm:"not null;index" json:"room_id"`
	OrganizerID      string        `gorm:"not null;index" json:"organizer_id"`
	Title            string        `gorm:"not null" json:"title"`
	StartTime        time.Time     `gorm:"not null;index" json:"start_time"`
	EndTime          time.Time     `gorm:"not null" json:"end_time"`
	Status           BookingStatus `gorm:"type:varchar(20);not null;default:'scheduled'" json:"status"`
	IsEmergency      bool          `gorm:"not null;default:false" json:"is_emergency"`
	RequiresApproval bool          `gorm:"not null;default:false" json:"requires_approval"`
	ActualEndTime    *time.Time    `json:"actual_end_time,omitempty"`
	ExternalEventID  *string       `json:"external_event_id,omitempty"`
	JoinURL          *string       `json:"join_url,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`

	Room      *Room      `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	Attendees []Attendee `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE" json:"attendees,omitempty"`
}

// Active reports whether the booking still occupies its room and attendees
// for conflict purposes.
func (b *Booking) Active() bool {
	return b.Status != StatusCancelled
}
