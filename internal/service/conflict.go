package service

import (
	"context"
	"sort"
	"time"

	"github.com/meetsync/reservation-service/internal/models"
	"github.com/meetsync/reservation-service/internal/repository"
	"gorm.io/gorm"
)

// RoomConflict describes an existing booking that blocks the proposed room.
type RoomConflict struct {
	BookingID     uint      `json:"booking_id"`
	Title         string    `json:"title"`
	OrganizerID   string    `json:"organizer_id"`
	OrganizerName string    `json:"organizer_name"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	IsEmergency   bool      `json:"is_emergency"`
}

// AttendeeConflict describes a user who is already in another meeting during
// the proposed time.
type AttendeeConflict struct {
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	BookingID uint      `json:"booking_id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// ConflictReport is the advisory outcome of a conflict check; the detector
// never mutates anything.
type ConflictReport struct {
	RoomConflicts     []RoomConflict     `json:"room_conflicts"`
	AttendeeConflicts []AttendeeConflict `json:"attendee_conflicts"`
}

func (r *ConflictReport) HasRoomConflicts() bool     { return len(r.RoomConflicts) > 0 }
func (r *ConflictReport) HasAttendeeConflicts() bool { return len(r.AttendeeConflicts) > 0 }

// ConflictDetector finds room and attendee collisions for a proposed
// booking. Room checks widen the proposed interval by RoomBuffer on each
// side; attendee checks use the raw interval, since back-to-back meetings
// are fine for people but not for rooms.
type ConflictDetector struct {
	bookings repository.BookingRepository
	users    repository.UserRepository
}

func NewConflictDetector(bookings repository.BookingRepository, users repository.UserRepository) *ConflictDetector {
	return &ConflictDetector{bookings: bookings, users: users}
}

// Detect runs both checks inside the caller's transaction so the result is
// consistent with the insert that usually follows. excludeID skips the
// booking itself when an update is checked against its own slot.
func (d *ConflictDetector) Detect(ctx context.Context, tx *gorm.DB, proposed *models.Booking, attendeeIDs []string, excludeID uint) (*ConflictReport, error) {
	report := &ConflictReport{}

	bufStart, bufEnd := WithBuffer(proposed.StartTime, proposed.EndTime, RoomBuffer)
	roomOverlaps, err := d.bookings.FindOverlappingForRoom(ctx, tx, proposed.RoomID, bufStart, bufEnd, excludeID)
	if err != nil {
		return nil, err
	}

	participants := uniqueParticipants(proposed.OrganizerID, attendeeIDs)
	userOverlaps, err := d.bookings.FindOverlappingForUsers(ctx, tx, participants, proposed.StartTime, proposed.EndTime, excludeID)
	if err != nil {
		return nil, err
	}

	names, err := d.lookupNames(ctx, roomOverlaps, userOverlaps, participants)
	if err != nil {
		return nil, err
	}

	for _, b := range roomOverlaps {
		report.RoomConflicts = append(report.RoomConflicts, RoomConflict{
			BookingID:     b.ID,
			Title:         b.Title,
			OrganizerID:   b.OrganizerID,
			OrganizerName: names[b.OrganizerID],
			StartTime:     b.StartTime,
			EndTime:       b.EndTime,
			IsEmergency:   b.IsEmergency,
		})
	}

	want := make(map[string]bool, len(participants))
	for _, id := range participants {
		want[id] = true
	}
	for _, b := range userOverlaps {
		for _, uid := range bookingParticipants(&b) {
			if !want[uid] {
				continue
			}
			report.AttendeeConflicts = append(report.AttendeeConflicts, AttendeeConflict{
				UserID:    uid,
				UserName:  names[uid],
				BookingID: b.ID,
				Title:     b.Title,
				StartTime: b.StartTime,
				EndTime:   b.EndTime,
			})
		}
	}

	sort.Slice(report.RoomConflicts, func(i, j int) bool {
		return report.RoomConflicts[i].StartTime.Before(report.RoomConflicts[j].StartTime)
	})
	sort.Slice(report.AttendeeConflicts, func(i, j int) bool {
		if report.AttendeeConflicts[i].StartTime.Equal(report.AttendeeConflicts[j].StartTime) {
			return report.AttendeeConflicts[i].UserID < report.AttendeeConflicts[j].UserID
		}
		return report.AttendeeConflicts[i].StartTime.Before(report.AttendeeConflicts[j].StartTime)
	})

	return report, nil
}

func (d *ConflictDetector) lookupNames(ctx context.Context, roomOverlaps, userOverlaps []models.Booking, participants []string) (map[string]string, error) {
	ids := make([]string, 0, len(participants)+len(roomOverlaps))
	ids = append(ids, participants...)
	for _, b := range roomOverlaps {
		ids = append(ids, b.OrganizerID)
	}
	for _, b := range userOverlaps {
		ids = append(ids, b.OrganizerID)
	}

	users, err := d.users.FindByIDs(ctx, uniqueParticipants("", ids))
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	// Fall back to the raw ID for users the directory has not synced yet.
	for _, id := range ids {
		if _, ok := names[id]; !ok {
			names[id] = id
		}
	}
	return names, nil
}

// uniqueParticipants deduplicates the organizer plus attendee IDs, dropping
// empties.
func uniqueParticipants(organizerID string, attendeeIDs []string) []string {
	seen := make(map[string]bool, len(attendeeIDs)+1)
	out := make([]string, 0, len(attendeeIDs)+1)
	for _, id := range append([]string{organizerID}, attendeeIDs...) {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func bookingParticipants(b *models.Booking) []string {
	ids := []string{b.OrganizerID}
	for _, a := range b.Attendees {
		ids = append(ids, a.UserID)
	}
	return ids
}
