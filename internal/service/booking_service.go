package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/meetsync/reservation-service/internal/models"
	"github.com/meetsync/reservation-service/internal/repository"
	"gorm.io/gorm"
)

type AttendeeRequest struct {
	UserID string
	Role   string
}

type CreateBookingRequest struct {
	RoomID      uint
	OrganizerID string
	Title       string
	StartTime   time.Time
	EndTime     time.Time
	IsEmergency bool
	Attendees   []AttendeeRequest
}

type UpdateBookingRequest struct {
	RoomID    uint
	Title     string
	StartTime time.Time
	EndTime   time.Time
	Attendees []AttendeeRequest
}

type BookingService interface {
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*models.Booking, error)
	UpdateBooking(ctx context.Context, id uint, req UpdateBookingRequest) (*models.Booking, error)
	CancelBooking(ctx context.Context, id uint) (*models.Booking, error)
	EndMeetingEarly(ctx context.Context, id uint, requesterID string) (*models.Booking, error)
	ExtendMeeting(ctx context.Context, id uint, requesterID string, newEndTime time.Time) (*models.Booking, error)
	GetBooking(ctx context.Context, id uint) (*models.Booking, error)
	ListRoomBookings(ctx context.Context, roomID uint, from, to time.Time) ([]models.Booking, error)
	ListUserBookings(ctx context.Context, userID string) ([]models.Booking, error)
	UpdateAttendeeStatus(ctx context.Context, bookingID uint, requesterID string, status models.AttendeeStatus, role string) (*models.Attendee, error)
	ProcessCompletedMeetings(ctx context.Context) (int64, error)
	FinalizeScheduledBooking(ctx context.Context, bookingID uint)
}

type bookingService struct {
	bookings  repository.BookingRepository
	rooms     repository.RoomRepository
	users     repository.UserRepository
	approvals repository.ApprovalRepository
	detector  *ConflictDetector
	policy    ApprovalPolicy
	notifier  Notifier
	links     MeetingLinker
	now       Clock
}

func NewBookingService(
	bookings repository.BookingRepository,
	rooms repository.RoomRepository,
	users repository.UserRepository,
	approvals repository.ApprovalRepository,
	detector *ConflictDetector,
	policy ApprovalPolicy,
	notifier Notifier,
	links MeetingLinker,
	now Clock,
) BookingService {
	if now == nil {
		now = time.Now
	}
	return &bookingService{
		bookings:  bookings,
		rooms:     rooms,
		users:     users,
		approvals: approvals,
		detector:  detector,
		policy:    policy,
		notifier:  notifier,
		links:     links,
		now:       now,
	}
}

// validateTimeWindow enforces the time rules every booking must satisfy.
// The business-hours check is hour-granular on the start and caps the end at
// the close of business, so a meeting ending 18:30 is rejected.
func (s *bookingService) validateTimeWindow(start, end time.Time) error {
	if !start.Before(end) {
		return ErrInvalidTimeRange
	}
	if start.Before(s.now().Add(-CreationGrace)) {
		return ErrPastBooking
	}
	dur := end.Sub(start)
	if dur < MinDuration {
		return ErrDurationTooShort
	}
	if dur > MaxDuration {
		return ErrDurationTooLong
	}
	if start.Hour() < BusinessOpenHour {
		return ErrOutsideBusinessHours
	}
	if end.Hour() > BusinessCloseHour || (end.Hour() == BusinessCloseHour && end.Minute() > 0) {
		return ErrOutsideBusinessHours
	}
	return nil
}

func (s *bookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*models.Booking, error) {
	if err := s.validateTimeWindow(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	organizer, err := s.users.FindByID(ctx, req.OrganizerID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("organizer %s: %w", req.OrganizerID, ErrNotFound)
		}
		return nil, err
	}

	room, err := s.rooms.FindByID(ctx, req.RoomID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if !room.IsAvailable {
		return nil, ErrRoomUnavailable
	}

	booking := &models.Booking{
		Reference:        uuid.NewString(),
		RoomID:           req.RoomID,
		OrganizerID:      req.OrganizerID,
		Title:            req.Title,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		Status:           models.StatusScheduled,
		IsEmergency:      req.IsEmergency,
		RequiresApproval: s.policy.RequiresApproval(organizer),
		Attendees:        toAttendees(req.Attendees),
	}
	if booking.RequiresApproval {
		booking.Status = models.StatusPending
	}

	var displaced []models.Booking
	err = s.bookings.Transaction(ctx, func(tx *gorm.DB) error {
		// Row lock on the room serializes concurrent creates for the same
		// room, closing the check-then-act window.
		if _, err := s.rooms.FindByIDForUpdate(ctx, tx, req.RoomID); err != nil {
			return err
		}

		report, err := s.detector.Detect(ctx, tx, booking, attendeeIDs(req.Attendees), 0)
		if err != nil {
			return err
		}
		// Attendee conflicts are never auto-resolved, emergency or not.
		if report.HasAttendeeConflicts() {
			return &AttendeeConflictError{Conflicts: report.AttendeeConflicts}
		}
		if report.HasRoomConflicts() {
			if !req.IsEmergency {
				return &RoomConflictError{Conflict: report.RoomConflicts[0]}
			}
			displaced, err = s.overrideConflicts(ctx, tx, req.RoomID, req.StartTime, req.EndTime, 0)
			if err != nil {
				return err
			}
		}

		if err := s.bookings.Create(ctx, tx, booking); err != nil {
			return err
		}

		if booking.RequiresApproval {
			return s.approvals.Create(ctx, tx, &models.Approval{
				BookingID:   booking.ID,
				RequesterID: req.OrganizerID,
				Status:      models.ApprovalPending,
				RequestedAt: s.now(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyDisplaced(ctx, displaced, booking)

	if booking.Status == models.StatusScheduled {
		s.FinalizeScheduledBooking(ctx, booking.ID)
	}

	return booking, nil
}

// overrideConflicts cancels every non-emergency booking in the room whose
// raw interval overlaps the proposed one. Emergency bookings are never
// pre-empted; colliding with one fails the new request instead.
func (s *bookingService) overrideConflicts(ctx context.Context, tx *gorm.DB, roomID uint, start, end time.Time, excludeID uint) ([]models.Booking, error) {
	overlapping, err := s.bookings.FindOverlappingForRoom(ctx, tx, roomID, start, end, excludeID)
	if err != nil {
		return nil, err
	}

	var displaced []models.Booking
	for _, b := range overlapping {
		if b.IsEmergency {
			return nil, &RoomConflictError{Conflict: RoomConflict{
				BookingID:     b.ID,
				Title:         b.Title,
				OrganizerID:   b.OrganizerID,
				OrganizerName: b.OrganizerID,
				StartTime:     b.StartTime,
				EndTime:       b.EndTime,
				IsEmergency:   true,
			}}
		}
		if err := s.bookings.UpdateStatus(ctx, tx, b.ID, models.StatusCancelled); err != nil {
			return nil, err
		}
		displaced = append(displaced, b)
	}
	return displaced, nil
}

func (s *bookingService) UpdateBooking(ctx context.Context, id uint, req UpdateBookingRequest) (*models.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if booking.Status != models.StatusScheduled && booking.Status != models.StatusPending {
		return nil, ErrInvalidState
	}
	if s.now().After(booking.StartTime.Add(UpdateGrace)) {
		return nil, ErrMeetingStarted
	}
	if err := s.validateTimeWindow(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	room, err := s.rooms.FindByID(ctx, req.RoomID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if !room.IsAvailable {
		return nil, ErrRoomUnavailable
	}

	err = s.bookings.Transaction(ctx, func(tx *gorm.DB) error {
		if _, err := s.rooms.FindByIDForUpdate(ctx, tx, req.RoomID); err != nil {
			return err
		}

		proposed := &models.Booking{
			RoomID:      req.RoomID,
			OrganizerID: booking.OrganizerID,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
		}
		report, err := s.detector.Detect(ctx, tx, proposed, attendeeIDs(req.Attendees), booking.ID)
		if err != nil {
			return err
		}
		if report.HasAttendeeConflicts() {
			return &AttendeeConflictError{Conflicts: report.AttendeeConflicts}
		}
		// Updates never pre-empt, even when the booking is flagged
		// emergency.
		if report.HasRoomConflicts() {
			return &RoomConflictError{Conflict: report.RoomConflicts[0]}
		}

		booking.RoomID = req.RoomID
		booking.Title = req.Title
		booking.StartTime = req.StartTime
		booking.EndTime = req.EndTime
		booking.Attendees = nil
		if err := s.bookings.Save(ctx, tx, booking); err != nil {
			return err
		}
		return s.bookings.ReplaceAttendees(ctx, tx, booking.ID, toAttendees(req.Attendees))
	})
	if err != nil {
		return nil, err
	}

	return s.bookings.FindByID(ctx, id)
}

func (s *bookingService) CancelBooking(ctx context.Context, id uint) (*models.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if booking.Status == models.StatusCancelled {
		return booking, nil
	}
	if booking.Status == models.StatusCompleted {
		return nil, ErrInvalidState
	}

	err = s.bookings.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.bookings.UpdateStatus(ctx, tx, id, models.StatusCancelled); err != nil {
			return err
		}
		// A dangling pending approval would violate the one-active-approval
		// invariant on any future resubmission, so close it alongside.
		if approval, err := s.approvals.FindPendingByBookingID(ctx, tx, id); err == nil {
			_, err := s.approvals.DecideIfPending(ctx, tx, approval.ID, map[string]any{
				"status":   models.ApprovalRejected,
				"comments": "booking cancelled before decision",
			})
			return err
		} else if !repository.IsNotFound(err) {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	booking.Status = models.StatusCancelled
	s.notifyAttendees(ctx, booking, "Meeting cancelled",
		fmt.Sprintf("%q on %s was cancelled", booking.Title, booking.StartTime.Format("Jan 2 15:04")))
	return booking, nil
}

func (s *bookingService) EndMeetingEarly(ctx context.Context, id uint, requesterID string) (*models.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if booking.OrganizerID != requesterID {
		return nil, ErrForbidden
	}
	if booking.Status != models.StatusScheduled {
		return nil, ErrInvalidState
	}

	ended := s.now()
	booking.ActualEndTime = &ended
	booking.Status = models.StatusCompleted
	err = s.bookings.Transaction(ctx, func(tx *gorm.DB) error {
		return s.bookings.Save(ctx, tx, booking)
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) ExtendMeeting(ctx context.Context, id uint, requesterID string, newEndTime time.Time) (*models.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if booking.OrganizerID != requesterID {
		return nil, ErrForbidden
	}
	if booking.Status != models.StatusScheduled {
		return nil, ErrInvalidState
	}
	if !newEndTime.After(booking.EndTime) {
		return nil, ErrInvalidTimeRange
	}
	if newEndTime.Sub(booking.StartTime) > MaxDuration {
		return nil, ErrDurationTooLong
	}
	if newEndTime.Hour() > BusinessCloseHour || (newEndTime.Hour() == BusinessCloseHour && newEndTime.Minute() > 0) {
		return nil, ErrOutsideBusinessHours
	}

	err = s.bookings.Transaction(ctx, func(tx *gorm.DB) error {
		if _, err := s.rooms.FindByIDForUpdate(ctx, tx, booking.RoomID); err != nil {
			return err
		}

		// Only the delta window needs to be free; the original slot is
		// already ours.
		deltaStart, deltaEnd := WithBuffer(booking.EndTime, newEndTime, RoomBuffer)
		overlapping, err := s.bookings.FindOverlappingForRoom(ctx, tx, booking.RoomID, deltaStart, deltaEnd, booking.ID)
		if err != nil {
			return err
		}
		if len(overlapping) > 0 {
			first := overlapping[0]
			return &RoomConflictError{Conflict: RoomConflict{
				BookingID:     first.ID,
				Title:         first.Title,
				OrganizerID:   first.OrganizerID,
				OrganizerName: first.OrganizerID,
				StartTime:     first.StartTime,
				EndTime:       first.EndTime,
				IsEmergency:   first.IsEmergency,
			}}
		}

		booking.EndTime = newEndTime
		return s.bookings.Save(ctx, tx, booking)
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) ListRoomBookings(ctx context.Context, roomID uint, from, to time.Time) ([]models.Booking, error) {
	if _, err := s.rooms.FindByID(ctx, roomID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return s.bookings.FindByRoom(ctx, roomID, from, to)
}

func (s *bookingService) ListUserBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	return s.bookings.FindByUser(ctx, userID)
}

func (s *bookingService) UpdateAttendeeStatus(ctx context.Context, bookingID uint, requesterID string, status models.AttendeeStatus, role string) (*models.Attendee, error) {
	attendee, err := s.bookings.FindAttendee(ctx, bookingID, requesterID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if status != "" {
		attendee.Status = status
	}
	if role != "" {
		attendee.Role = role
	}
	if err := s.bookings.SaveAttendee(ctx, attendee); err != nil {
		return nil, err
	}
	return attendee, nil
}

// ProcessCompletedMeetings sweeps scheduled bookings whose end time has
// passed into completed. Idempotent; the sweeper calls it on a ticker.
func (s *bookingService) ProcessCompletedMeetings(ctx context.Context) (int64, error) {
	return s.bookings.CompleteElapsed(ctx, s.now())
}

// FinalizeScheduledBooking creates the external meeting event and notifies
// participants for a booking that just became scheduled. Integration
// failures are logged and swallowed; the booking stays authoritative.
func (s *bookingService) FinalizeScheduledBooking(ctx context.Context, bookingID uint) {
	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		log.Printf("[booking] finalize: load booking %d: %v", bookingID, err)
		return
	}

	joinNote := ""
	if s.links != nil {
		event, err := s.links.CreateMeetingEvent(ctx, booking, s.attendeeEmails(ctx, booking))
		if err != nil {
			log.Printf("[booking] meeting-link creation failed for booking %d: %v", bookingID, err)
		} else {
			if err := s.bookings.SetIntegration(ctx, booking.ID, event.ExternalEventID, event.JoinURL); err != nil {
				log.Printf("[booking] store meeting link for booking %d: %v", bookingID, err)
			}
			joinNote = " Join: " + event.JoinURL
		}
	}

	s.notifyAttendees(ctx, booking, "Meeting scheduled",
		fmt.Sprintf("%q is scheduled for %s.%s", booking.Title, booking.StartTime.Format("Jan 2 15:04"), joinNote))
}

func (s *bookingService) attendeeEmails(ctx context.Context, booking *models.Booking) []string {
	users, err := s.users.FindByIDs(ctx, bookingParticipants(booking))
	if err != nil {
		log.Printf("[booking] resolve attendee emails for booking %d: %v", booking.ID, err)
		return nil
	}
	emails := make([]string, 0, len(users))
	for _, u := range users {
		if u.Email != "" {
			emails = append(emails, u.Email)
		}
	}
	return emails
}

func (s *bookingService) notifyAttendees(ctx context.Context, booking *models.Booking, title, message string) {
	if s.notifier == nil {
		return
	}
	for _, uid := range bookingParticipants(booking) {
		if err := s.notifier.Notify(ctx, uid, title, message, booking.OrganizerID); err != nil {
			log.Printf("[booking] notify %s: %v", uid, err)
		}
	}
}

func (s *bookingService) notifyDisplaced(ctx context.Context, displaced []models.Booking, winner *models.Booking) {
	if s.notifier == nil {
		return
	}
	for _, b := range displaced {
		msg := fmt.Sprintf("%q on %s was cancelled to make room for an emergency meeting",
			b.Title, b.StartTime.Format("Jan 2 15:04"))
		if err := s.notifier.Notify(ctx, b.OrganizerID, "Meeting pre-empted", msg, winner.OrganizerID); err != nil {
			log.Printf("[booking] notify displaced organizer %s: %v", b.OrganizerID, err)
		}
	}
}

func toAttendees(reqs []AttendeeRequest) []models.Attendee {
	attendees := make([]models.Attendee, 0, len(reqs))
	seen := make(map[string]bool, len(reqs))
	for _, a := range reqs {
		if a.UserID == "" || seen[a.UserID] {
			continue
		}
		seen[a.UserID] = true
		role := a.Role
		if role == "" {
			role = "Participant"
		}
		attendees = append(attendees, models.Attendee{
			UserID: a.UserID,
			Status: models.AttendeePending,
			Role:   role,
		})
	}
	return attendees
}

func attendeeIDs(reqs []AttendeeRequest) []string {
	ids := make([]string, 0, len(reqs))
	for _, a := range reqs {
		ids = append(ids, a.UserID)
	}
	return ids
}
