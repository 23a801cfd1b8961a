package models

import "time"

type AttendeeStatus string

const (
	AttendeePending  AttendeeStatus = "pending"
	AttendeeAccepted AttendeeStatus = "accepted"
	AttendeeDeclined AttendeeStatus = "declined"
)

type Attendee struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	BookingID uint           `gorm:"not null;index" json:"booking_id"`
	UserID    string         `gorm:"not null;index" json:"user_id"`
	Status    AttendeeStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Role      string         `gorm:"not null;default:'Participant'" json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
