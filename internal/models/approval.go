package models

import "time"

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

type Approval struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	BookingID       uint           `gorm:"not null;index" json:"booking_id"`
	RequesterID     string         `gorm:"not null" json:"requester_id"`
	ApproverID      *string        `json:"approver_id,omitempty"`
	Status          ApprovalStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Comments        string         `json:"comments"`
	SuggestedRoomID *uint          `json:"suggested_room_id,omitempty"`
	RequestedAt     time.Time      `gorm:"not null" json:"requested_at"`
	ApprovedAt      *time.Time     `json:"approved_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`

	Booking *Booking `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
}

// Decided reports whether the approval has reached a terminal state.
func (a *Approval) Decided() bool {
	return a.Status != ApprovalPending
}
