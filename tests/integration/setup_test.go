//go:build integration

package integration

import (
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/meetsync/reservation-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		getEnv("TEST_DB_HOST", "localhost"),
		getEnv("TEST_DB_PORT", "5434"),
		getEnv("TEST_DB_USER", "postgres"),
		getEnv("TEST_DB_PASSWORD", "postgres"),
		getEnv("TEST_DB_NAME", "reservation_test_db"),
	)

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to test database: %v", err)
	}

	// Drop and recreate tables for clean state
	dropTables()

	if err := testDB.AutoMigrate(
		&models.Room{},
		&models.User{},
		&models.Booking{},
		&models.Attendee{},
		&models.Approval{},
	); err != nil {
		log.Fatalf("failed to auto-migrate test database: %v", err)
	}

	testDB.Exec(`
		CREATE INDEX IF NOT EXISTS idx_booking_room_window
		ON bookings (room_id, start_time, end_time)
		WHERE status <> 'cancelled'
	`)
	testDB.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_approval_active
		ON approvals (booking_id)
		WHERE status = 'pending'
	`)

	code := m.Run()

	dropTables()

	os.Exit(code)
}

func dropTables() {
	testDB.Exec("DROP TABLE IF EXISTS approvals")
	testDB.Exec("DROP TABLE IF EXISTS attendees")
	testDB.Exec("DROP TABLE IF EXISTS bookings")
	testDB.Exec("DROP TABLE IF EXISTS users")
	testDB.Exec("DROP TABLE IF EXISTS rooms")
}

func cleanTables() {
	testDB.Exec("DELETE FROM approvals")
	testDB.Exec("DELETE FROM attendees")
	testDB.Exec("DELETE FROM bookings")
	testDB.Exec("DELETE FROM users")
	testDB.Exec("DELETE FROM rooms")
	testDB.Exec("ALTER SEQUENCE IF EXISTS rooms_id_seq RESTART WITH 1")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
