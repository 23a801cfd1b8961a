package models

import "time"

// User is a local replica of the corporate user directory, kept in sync by
// the directory consumer. The ID is the directory identifier, not a local
// sequence.
type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"not null" json:"email"`
	Role      string    `gorm:"not null;default:'employee'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
