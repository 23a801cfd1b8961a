package database

import (
	"log"

	"github.com/meetsync/reservation-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Room{},
		&models.User{},
		&models.Booking{},
		&models.Attendee{},
		&models.Approval{},
	); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	// Overlap queries scan a room's non-cancelled bookings by time
	db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_booking_room_window
		ON bookings (room_id, start_time, end_time)
		WHERE status <> 'cancelled'
	`)

	// Backstop for the one-active-approval invariant
	db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_approval_active
		ON approvals (booking_id)
		WHERE status = 'pending'
	`)

	return db
}
