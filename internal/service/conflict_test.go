package service

import (
	"context"
	"testing"
	"time"

	"github.com/meetsync/reservation-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func proposedBooking(roomID uint, organizerID string, start, end time.Time) *models.Booking {
	return &models.Booking{
		RoomID:      roomID,
		OrganizerID: organizerID,
		Title:       "Sprint Planning",
		StartTime:   start,
		EndTime:     end,
	}
}

func TestDetect_RoomConflictUsesBuffer(t *testing.T) {
	existing := models.Booking{
		ID:          7,
		RoomID:      1,
		OrganizerID: "u-bob",
		Title:       "Standup",
		StartTime:   at(9, 0),
		EndTime:     at(10, 0),
		Status:      models.StatusScheduled,
	}

	var gotStart, gotEnd time.Time
	bookings := &mockBookingRepo{
		overlappingForRoomFn: func(ctx context.Context, tx *gorm.DB, roomID uint, start, end time.Time, excludeID uint) ([]models.Booking, error) {
			gotStart, gotEnd = start, end
			return []models.Booking{existing}, nil
		},
	}
	detector := NewConflictDetector(bookings, &mockUserRepo{})

	// 10:10 is within the 15-minute buffer after the existing 10:00 end
	report, err := detector.Detect(context.Background(), nil, proposedBooking(1, "u-alice", at(10, 10), at(11, 0)), nil, 0)
	require.NoError(t, err)

	assert.Equal(t, at(9, 55), gotStart, "proposed interval should be widened by the buffer")
	assert.Equal(t, at(11, 15), gotEnd)

	require.Len(t, report.RoomConflicts, 1)
	assert.Equal(t, uint(7), report.RoomConflicts[0].BookingID)
	assert.Equal(t, "Standup", report.RoomConflicts[0].Title)
	assert.Equal(t, "u-bob", report.RoomConflicts[0].OrganizerID)
	assert.False(t, report.RoomConflicts[0].IsEmergency)
}

func TestDetect_AttendeeConflictUsesRawInterval(t *testing.T) {
	var gotStart, gotEnd time.Time
	var gotUsers []string
	bookings := &mockBookingRepo{
		overlappingForUsersFn: func(ctx context.Context, tx *gorm.DB, userIDs []string, start, end time.Time, excludeID uint) ([]models.Booking, error) {
			gotUsers = userIDs
			gotStart, gotEnd = start, end
			return nil, nil
		},
	}
	detector := NewConflictDetector(bookings, &mockUserRepo{})

	attendees := []string{"u-bob", "u-carol", "u-bob", "u-alice"}
	report, err := detector.Detect(context.Background(), nil, proposedBooking(1, "u-alice", at(10, 0), at(11, 0)), attendees, 0)
	require.NoError(t, err)

	assert.Equal(t, at(10, 0), gotStart, "attendee check must not be buffered")
	assert.Equal(t, at(11, 0), gotEnd)
	assert.Equal(t, []string{"u-alice", "u-bob", "u-carol"}, gotUsers, "organizer first, duplicates dropped")
	assert.Empty(t, report.AttendeeConflicts)
}

func TestDetect_OrganizerOnlyStillChecked(t *testing.T) {
	other := models.Booking{
		ID:          3,
		RoomID:      2,
		OrganizerID: "u-alice",
		Title:       "1:1",
		StartTime:   at(10, 30),
		EndTime:     at(11, 30),
		Status:      models.StatusScheduled,
	}
	bookings := &mockBookingRepo{
		overlappingForUsersFn: func(ctx context.Context, tx *gorm.DB, userIDs []string, start, end time.Time, excludeID uint) ([]models.Booking, error) {
			return []models.Booking{other}, nil
		},
	}
	detector := NewConflictDetector(bookings, &mockUserRepo{})

	report, err := detector.Detect(context.Background(), nil, proposedBooking(1, "u-alice", at(10, 0), at(11, 0)), nil, 0)
	require.NoError(t, err)

	require.Len(t, report.AttendeeConflicts, 1)
	assert.Equal(t, "u-alice", report.AttendeeConflicts[0].UserID)
	assert.Equal(t, uint(3), report.AttendeeConflicts[0].BookingID)
}

func TestDetect_ResultsSortedByStartTime(t *testing.T) {
	later := models.Booking{ID: 1, Title: "Later", OrganizerID: "u-b", StartTime: at(12, 0), EndTime: at(13, 0)}
	earlier := models.Booking{ID: 2, Title: "Earlier", OrganizerID: "u-c", StartTime: at(9, 0), EndTime: at(13, 0)}

	bookings := &mockBookingRepo{
		overlappingForRoomFn: func(ctx context.Context, tx *gorm.DB, roomID uint, start, end time.Time, excludeID uint) ([]models.Booking, error) {
			return []models.Booking{later, earlier}, nil
		},
	}
	detector := NewConflictDetector(bookings, &mockUserRepo{})

	report, err := detector.Detect(context.Background(), nil, proposedBooking(1, "u-a", at(9, 0), at(13, 0)), nil, 0)
	require.NoError(t, err)

	require.Len(t, report.RoomConflicts, 2)
	assert.Equal(t, "Earlier", report.RoomConflicts[0].Title)
	assert.Equal(t, "Later", report.RoomConflicts[1].Title)
}

func TestDetect_AnnotatesOrganizerNames(t *testing.T) {
	existing := models.Booking{ID: 5, OrganizerID: "u-bob", Title: "Budget", StartTime: at(10, 0), EndTime: at(11, 0)}
	bookings := &mockBookingRepo{
		overlappingForRoomFn: func(ctx context.Context, tx *gorm.DB, roomID uint, start, end time.Time, excludeID uint) ([]models.Booking, error) {
			return []models.Booking{existing}, nil
		},
	}
	users := &mockUserRepo{
		findByIDsFn: func(ctx context.Context, ids []string) ([]models.User, error) {
			return []models.User{{ID: "u-bob", Name: "Bob Chan"}}, nil
		},
	}
	detector := NewConflictDetector(bookings, users)

	report, err := detector.Detect(context.Background(), nil, proposedBooking(1, "u-alice", at(10, 0), at(11, 0)), nil, 0)
	require.NoError(t, err)

	require.Len(t, report.RoomConflicts, 1)
	assert.Equal(t, "Bob Chan", report.RoomConflicts[0].OrganizerName)
}
