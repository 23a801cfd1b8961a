package models

import "time"

// Room is a local replica of the corporate room directory, kept in sync by
// the directory consumer.
type Room struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Location    string    `json:"location"`
	Capacity    int       `gorm:"not null;default:0" json:"capacity"`
	IsAvailable bool      `gorm:"not null;default:true" json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
