package repository

import (
	"context"
	"time"

	"github.com/meetsync/reservation-service/internal/models"
	"gorm.io/gorm"
)

type BookingRepository interface {
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	Save(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	FindByID(ctx context.Context, id uint) (*models.Booking, error)
	FindOverlappingForRoom(ctx context.Context, tx *gorm.DB, roomID uint, start, end time.Time, excludeID uint) ([]models.Booking, error)
	FindOverlappingForUsers(ctx context.Context, tx *gorm.DB, userIDs []string, start, end time.Time, excludeID uint) ([]models.Booking, error)
	FindByRoom(ctx context.Context, roomID uint, from, to time.Time) ([]models.Booking, error)
	FindByUser(ctx context.Context, userID string) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, bookingID uint, status models.BookingStatus) error
	UpdateStatusIf(ctx context.Context, tx *gorm.DB, bookingID uint, from, to models.BookingStatus) (bool, error)
	ScheduleWithRoom(ctx context.Context, tx *gorm.DB, bookingID uint, roomID uint) (bool, error)
	ReplaceAttendees(ctx context.Context, tx *gorm.DB, bookingID uint, attendees []models.Attendee) error
	FindAttendee(ctx context.Context, bookingID uint, userID string) (*models.Attendee, error)
	SaveAttendee(ctx context.Context, attendee *models.Attendee) error
	CompleteElapsed(ctx context.Context, cutoff time.Time) (int64, error)
	SetIntegration(ctx context.Context, bookingID uint, externalEventID, joinURL string) error
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return tx.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepository) Save(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return tx.WithContext(ctx).Save(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).Preload("Attendees").First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// FindOverlappingForRoom returns non-cancelled bookings in the room whose
// interval intersects [start, end), ordered by start time so the first
// result is deterministic.
func (r *bookingRepository) FindOverlappingForRoom(ctx context.Context, tx *gorm.DB, roomID uint, start, end time.Time, excludeID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	q := tx.WithContext(ctx).
		Where("room_id = ? AND status <> ?", roomID, models.StatusCancelled).
		Where("start_time < ? AND end_time > ?", end, start)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Order("start_time ASC, id ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// FindOverlappingForUsers returns non-cancelled bookings in which any of the
// given users participates, as organizer or attendee, whose interval
// intersects [start, end).
func (r *bookingRepository) FindOverlappingForUsers(ctx context.Context, tx *gorm.DB, userIDs []string, start, end time.Time, excludeID uint) ([]models.Booking, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var bookings []models.Booking
	q := tx.WithContext(ctx).
		Preload("Attendees").
		Where("status <> ?", models.StatusCancelled).
		Where("start_time < ? AND end_time > ?", end, start).
		Where("organizer_id IN ? OR id IN (?)",
			userIDs,
			tx.Model(&models.Attendee{}).Select("booking_id").Where("user_id IN ?", userIDs),
		)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Order("start_time ASC, id ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindByRoom(ctx context.Context, roomID uint, from, to time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	q := r.db.WithContext(ctx).Preload("Attendees").Where("room_id = ?", roomID)
	if !from.IsZero() {
		q = q.Where("end_time > ?", from)
	}
	if !to.IsZero() {
		q = q.Where("start_time < ?", to)
	}
	if err := q.Order("start_time ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Preload("Attendees").
		Where("organizer_id = ? OR id IN (?)",
			userID,
			r.db.Model(&models.Attendee{}).Select("booking_id").Where("user_id = ?", userID),
		).
		Order("start_time ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, bookingID uint, status models.BookingStatus) error {
	return tx.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", bookingID).
		Update("status", status).Error
}

// UpdateStatusIf transitions the booking only when it is still in the
// expected state, reporting whether the row changed. This is the guard that
// keeps concurrent approval decisions from both firing.
func (r *bookingRepository) UpdateStatusIf(ctx context.Context, tx *gorm.DB, bookingID uint, from, to models.BookingStatus) (bool, error) {
	res := tx.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND status = ?", bookingID, from).
		Update("status", to)
	return res.RowsAffected > 0, res.Error
}

// ScheduleWithRoom moves a still-pending booking into the given room and
// schedules it in one write, so no reader can see it scheduled in the old
// room.
func (r *bookingRepository) ScheduleWithRoom(ctx context.Context, tx *gorm.DB, bookingID uint, roomID uint) (bool, error) {
	res := tx.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND status = ?", bookingID, models.StatusPending).
		Updates(map[string]any{"room_id": roomID, "status": models.StatusScheduled})
	return res.RowsAffected > 0, res.Error
}

func (r *bookingRepository) ReplaceAttendees(ctx context.Context, tx *gorm.DB, bookingID uint, attendees []models.Attendee) error {
	if err := tx.WithContext(ctx).Where("booking_id = ?", bookingID).Delete(&models.Attendee{}).Error; err != nil {
		return err
	}
	if len(attendees) == 0 {
		return nil
	}
	for i := range attendees {
		attendees[i].ID = 0
		attendees[i].BookingID = bookingID
	}
	return tx.WithContext(ctx).Create(&attendees).Error
}

func (r *bookingRepository) FindAttendee(ctx context.Context, bookingID uint, userID string) (*models.Attendee, error) {
	var attendee models.Attendee
	err := r.db.WithContext(ctx).
		Where("booking_id = ? AND user_id = ?", bookingID, userID).
		First(&attendee).Error
	if err != nil {
		return nil, err
	}
	return &attendee, nil
}

func (r *bookingRepository) SaveAttendee(ctx context.Context, attendee *models.Attendee) error {
	return r.db.WithContext(ctx).Save(attendee).Error
}

// CompleteElapsed moves every scheduled booking whose end time has passed to
// completed. A single conditional UPDATE, safe to run concurrently with user
// requests.
func (r *bookingRepository) CompleteElapsed(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("status = ? AND end_time <= ?", models.StatusScheduled, cutoff).
		Update("status", models.StatusCompleted)
	return res.RowsAffected, res.Error
}

func (r *bookingRepository) SetIntegration(ctx context.Context, bookingID uint, externalEventID, joinURL string) error {
	return r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", bookingID).
		Updates(map[string]any{"external_event_id": externalEventID, "join_url": joinURL}).Error
}
