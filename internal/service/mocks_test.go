package service

import (
	"context"
	"time"

	"github.com/meetsync/reservation-service/internal/models"
	"gorm.io/gorm"
)

// --- Mock BookingRepository ---

type mockBookingRepo struct {
	createFn              func(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	saveFn                func(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	findByIDFn            func(ctx context.Context, id uint) (*models.Booking, error)
	overlappingForRoomFn  func(ctx context.Context, tx *gorm.DB, roomID uint, start, end time.Time, excludeID uint) ([]models.Booking, error)
	overlappingForUsersFn func(ctx context.Context, tx *gorm.DB, userIDs []string, start, end time.Time, excludeID uint) ([]models.Booking, error)
	findByRoomFn          func(ctx context.Context, roomID uint, from, to time.Time) ([]models.Booking, error)
	findByUserFn          func(ctx context.Context, userID string) ([]models.Booking, error)
	updateStatusFn        func(ctx context.Context, tx *gorm.DB, bookingID uint, status models.BookingStatus) error
	updateStatusIfFn      func(ctx context.Context, tx *gorm.DB, bookingID uint, from, to models.BookingStatus) (bool, error)
	scheduleWithRoomFn    func(ctx context.Context, tx *gorm.DB, bookingID uint, roomID uint) (bool, error)
	replaceAttendeesFn    func(ctx context.Context, tx *gorm.DB, bookingID uint, attendees []models.Attendee) error
	findAttendeeFn        func(ctx context.Context, bookingID uint, userID string) (*models.Attendee, error)
	saveAttendeeFn        func(ctx context.Context, attendee *models.Attendee) error
	completeElapsedFn     func(ctx context.Context, cutoff time.Time) (int64, error)
	setIntegrationFn      func(ctx context.Context, bookingID uint, externalEventID, joinURL string) error
}

func (m *mockBookingRepo) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func (m *mockBookingRepo) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	if m.createFn == nil {
		booking.ID = 1
		return nil
	}
	return m.createFn(ctx, tx, booking)
}

func (m *mockBookingRepo) Save(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	if m.saveFn == nil {
		return nil
	}
	return m.saveFn(ctx, tx, booking)
}

func (m *mockBookingRepo) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	if m.findByIDFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.findByIDFn(ctx, id)
}

func (m *mockBookingRepo) FindOverlappingForRoom(ctx context.Context, tx *gorm.DB, roomID uint, start, end time.Time, excludeID uint) ([]models.Booking, error) {
	if m.overlappingForRoomFn == nil {
		return nil, nil
	}
	return m.overlappingForRoomFn(ctx, tx, roomID, start, end, excludeID)
}

func (m *mockBookingRepo) FindOverlappingForUsers(ctx context.Context, tx *gorm.DB, userIDs []string, start, end time.Time, excludeID uint) ([]models.Booking, error) {
	if m.overlappingForUsersFn == nil {
		return nil, nil
	}
	return m.overlappingForUsersFn(ctx, tx, userIDs, start, end, excludeID)
}

func (m *mockBookingRepo) FindByRoom(ctx context.Context, roomID uint, from, to time.Time) ([]models.Booking, error) {
	if m.findByRoomFn == nil {
		return nil, nil
	}
	return m.findByRoomFn(ctx, roomID, from, to)
}

func (m *mockBookingRepo) FindByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	if m.findByUserFn == nil {
		return nil, nil
	}
	return m.findByUserFn(ctx, userID)
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, bookingID uint, status models.BookingStatus) error {
	if m.updateStatusFn == nil {
		return nil
	}
	return m.updateStatusFn(ctx, tx, bookingID, status)
}

func (m *mockBookingRepo) UpdateStatusIf(ctx context.Context, tx *gorm.DB, bookingID uint, from, to models.BookingStatus) (bool, error) {
	if m.updateStatusIfFn == nil {
		return true, nil
	}
	return m.updateStatusIfFn(ctx, tx, bookingID, from, to)
}

func (m *mockBookingRepo) ScheduleWithRoom(ctx context.Context, tx *gorm.DB, bookingID uint, roomID uint) (bool, error) {
	if m.scheduleWithRoomFn == nil {
		return true, nil
	}
	return m.scheduleWithRoomFn(ctx, tx, bookingID, roomID)
}

func (m *mockBookingRepo) ReplaceAttendees(ctx context.Context, tx *gorm.DB, bookingID uint, attendees []models.Attendee) error {
	if m.replaceAttendeesFn == nil {
		return nil
	}
	return m.replaceAttendeesFn(ctx, tx, bookingID, attendees)
}

func (m *mockBookingRepo) FindAttendee(ctx context.Context, bookingID uint, userID string) (*models.Attendee, error) {
	if m.findAttendeeFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.findAttendeeFn(ctx, bookingID, userID)
}

func (m *mockBookingRepo) SaveAttendee(ctx context.Context, attendee *models.Attendee) error {
	if m.saveAttendeeFn == nil {
		return nil
	}
	return m.saveAttendeeFn(ctx, attendee)
}

func (m *mockBookingRepo) CompleteElapsed(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.completeElapsedFn == nil {
		return 0, nil
	}
	return m.completeElapsedFn(ctx, cutoff)
}

func (m *mockBookingRepo) SetIntegration(ctx context.Context, bookingID uint, externalEventID, joinURL string) error {
	if m.setIntegrationFn == nil {
		return nil
	}
	return m.setIntegrationFn(ctx, bookingID, externalEventID, joinURL)
}

// --- Mock RoomRepository ---

type mockRoomRepo struct {
	findByIDFn func(ctx context.Context, id uint) (*models.Room, error)
	findAllFn  func(ctx context.Context) ([]models.Room, error)
	upsertFn   func(ctx context.Context, room *models.Room) error
}

func (m *mockRoomRepo) FindByID(ctx context.Context, id uint) (*models.Room, error) {
	if m.findByIDFn == nil {
		return &models.Room{ID: id, Name: "Room", IsAvailable: true}, nil
	}
	return m.findByIDFn(ctx, id)
}

func (m *mockRoomRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Room, error) {
	return m.FindByID(ctx, id)
}

func (m *mockRoomRepo) FindAll(ctx context.Context) ([]models.Room, error) {
	if m.findAllFn == nil {
		return nil, nil
	}
	return m.findAllFn(ctx)
}

func (m *mockRoomRepo) Upsert(ctx context.Context, room *models.Room) error {
	if m.upsertFn == nil {
		return nil
	}
	return m.upsertFn(ctx, room)
}

// --- Mock UserRepository ---

type mockUserRepo struct {
	findByIDFn  func(ctx context.Context, id string) (*models.User, error)
	findByIDsFn func(ctx context.Context, ids []string) ([]models.User, error)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.findByIDFn == nil {
		return &models.User{ID: id, Name: id, Role: "employee"}, nil
	}
	return m.findByIDFn(ctx, id)
}

func (m *mockUserRepo) FindByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if m.findByIDsFn == nil {
		users := make([]models.User, len(ids))
		for i, id := range ids {
			users[i] = models.User{ID: id, Name: id, Role: "employee"}
		}
		return users, nil
	}
	return m.findByIDsFn(ctx, ids)
}

func (m *mockUserRepo) Upsert(ctx context.Context, user *models.User) error {
	return nil
}

// --- Mock ApprovalRepository ---

type mockApprovalRepo struct {
	createFn           func(ctx context.Context, tx *gorm.DB, approval *models.Approval) error
	findByIDFn         func(ctx context.Context, id uint) (*models.Approval, error)
	findPendingFn      func(ctx context.Context, tx *gorm.DB, bookingID uint) (*models.Approval, error)
	findAllPendingFn   func(ctx context.Context) ([]models.Approval, error)
	decideIfPendingFn  func(ctx context.Context, tx *gorm.DB, id uint, fields map[string]any) (bool, error)
	updateSuggestionFn func(ctx context.Context, id uint, suggestedRoomID uint, comments string) (bool, error)
}

func (m *mockApprovalRepo) Create(ctx context.Context, tx *gorm.DB, approval *models.Approval) error {
	if m.createFn == nil {
		approval.ID = 1
		return nil
	}
	return m.createFn(ctx, tx, approval)
}

func (m *mockApprovalRepo) FindByID(ctx context.Context, id uint) (*models.Approval, error) {
	if m.findByIDFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.findByIDFn(ctx, id)
}

func (m *mockApprovalRepo) FindPendingByBookingID(ctx context.Context, tx *gorm.DB, bookingID uint) (*models.Approval, error) {
	if m.findPendingFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.findPendingFn(ctx, tx, bookingID)
}

func (m *mockApprovalRepo) FindAllPending(ctx context.Context) ([]models.Approval, error) {
	if m.findAllPendingFn == nil {
		return nil, nil
	}
	return m.findAllPendingFn(ctx)
}

func (m *mockApprovalRepo) DecideIfPending(ctx context.Context, tx *gorm.DB, id uint, fields map[string]any) (bool, error) {
	if m.decideIfPendingFn == nil {
		return true, nil
	}
	return m.decideIfPendingFn(ctx, tx, id, fields)
}

func (m *mockApprovalRepo) UpdateSuggestionIfPending(ctx context.Context, id uint, suggestedRoomID uint, comments string) (bool, error) {
	if m.updateSuggestionFn == nil {
		return true, nil
	}
	return m.updateSuggestionFn(ctx, id, suggestedRoomID, comments)
}

// --- Mock Notifier / MeetingLinker ---

type mockNotifier struct {
	notifyFn func(ctx context.Context, userID, title, message, fromUser string) error
	sent     []string
}

func (m *mockNotifier) Notify(ctx context.Context, userID, title, message, fromUser string) error {
	m.sent = append(m.sent, userID+": "+title)
	if m.notifyFn == nil {
		return nil
	}
	return m.notifyFn(ctx, userID, title, message, fromUser)
}

type mockLinker struct {
	createFn func(ctx context.Context, booking *models.Booking, attendeeEmails []string) (*MeetingEvent, error)
	calls    int
}

func (m *mockLinker) CreateMeetingEvent(ctx context.Context, booking *models.Booking, attendeeEmails []string) (*MeetingEvent, error) {
	m.calls++
	if m.createFn == nil {
		return &MeetingEvent{ExternalEventID: "evt-1", JoinURL: "https://meet.example.com/evt-1"}, nil
	}
	return m.createFn(ctx, booking, attendeeEmails)
}
