package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/meetsync/reservation-service/internal/models"
	"github.com/meetsync/reservation-service/internal/repository"
	"gorm.io/gorm"
)

// BookingFinalizer is the lifecycle-manager callback the workflow invokes
// once a booking wins approval.
type BookingFinalizer interface {
	FinalizeScheduledBooking(ctx context.Context, bookingID uint)
}

type ApprovalService interface {
	CreateApprovalRequest(ctx context.Context, bookingID uint, requesterID string) (*models.Approval, error)
	ProcessApproval(ctx context.Context, approvalID uint, approverID string, approve bool, comments string) (*models.Approval, error)
	SuggestAlternativeRoom(ctx context.Context, approvalID uint, roomID uint, comments, approverID string) (*models.Approval, error)
	ApproveWithSuggestedRoom(ctx context.Context, approvalID uint, roomID uint, approverID string) (*models.Approval, error)
	GetApproval(ctx context.Context, id uint) (*models.Approval, error)
	ListPendingApprovals(ctx context.Context) ([]models.Approval, error)
}

type approvalService struct {
	approvals repository.ApprovalRepository
	bookings  repository.BookingRepository
	rooms     repository.RoomRepository
	finalizer BookingFinalizer
	notifier  Notifier
	now       Clock
}

func NewApprovalService(
	approvals repository.ApprovalRepository,
	bookings repository.BookingRepository,
	rooms repository.RoomRepository,
	finalizer BookingFinalizer,
	notifier Notifier,
	now Clock,
) ApprovalService {
	if now == nil {
		now = time.Now
	}
	return &approvalService{
		approvals: approvals,
		bookings:  bookings,
		rooms:     rooms,
		finalizer: finalizer,
		notifier:  notifier,
		now:       now,
	}
}

// CreateApprovalRequest opens a pending approval for the booking. A booking
// may have at most one undecided approval at a time.
func (s *approvalService) CreateApprovalRequest(ctx context.Context, bookingID uint, requesterID string) (*models.Approval, error) {
	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if booking.Status != models.StatusPending {
		return nil, ErrInvalidState
	}

	approval := &models.Approval{
		BookingID:   bookingID,
		RequesterID: requesterID,
		Status:      models.ApprovalPending,
		RequestedAt: s.now(),
	}
	err = s.bookings.Transaction(ctx, func(tx *gorm.DB) error {
		if _, err := s.approvals.FindPendingByBookingID(ctx, tx, bookingID); err == nil {
			return ErrApprovalExists
		} else if !repository.IsNotFound(err) {
			return err
		}
		return s.approvals.Create(ctx, tx, approval)
	})
	if err != nil {
		return nil, err
	}
	return approval, nil
}

// ProcessApproval applies a manager's decision. The transition is a single
// conditional update guarded on the approval still being pending, so a
// repeat call gets AlreadyProcessed and the booking is untouched.
func (s *approvalService) ProcessApproval(ctx context.Context, approvalID uint, approverID string, approve bool, comments string) (*models.Approval, error) {
	return s.decide(ctx, approvalID, approverID, approve, comments, nil)
}

// SuggestAlternativeRoom records a non-binding counter-offer on a still
// pending approval without deciding it.
func (s *approvalService) SuggestAlternativeRoom(ctx context.Context, approvalID uint, roomID uint, comments, approverID string) (*models.Approval, error) {
	if _, err := s.approvals.FindByID(ctx, approvalID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if _, err := s.rooms.FindByID(ctx, roomID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	changed, err := s.approvals.UpdateSuggestionIfPending(ctx, approvalID, roomID, comments)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, ErrAlreadyProcessed
	}

	approval, err := s.approvals.FindByID(ctx, approvalID)
	if err != nil {
		return nil, err
	}
	s.notifyRequester(ctx, approval, "Alternative room suggested",
		fmt.Sprintf("your manager suggests a different room for this meeting: %s", comments), approverID)
	return approval, nil
}

// ApproveWithSuggestedRoom is suggest-then-approve as one atomic transition:
// the suggestion and the approval land in the same transaction, so the
// booking can never be observed scheduled in its original room.
func (s *approvalService) ApproveWithSuggestedRoom(ctx context.Context, approvalID uint, roomID uint, approverID string) (*models.Approval, error) {
	if _, err := s.rooms.FindByID(ctx, roomID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return s.decide(ctx, approvalID, approverID, true, "", &roomID)
}

func (s *approvalService) decide(ctx context.Context, approvalID uint, approverID string, approve bool, comments string, suggestedRoomID *uint) (*models.Approval, error) {
	approval, err := s.approvals.FindByID(ctx, approvalID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	status := models.ApprovalRejected
	if approve {
		status = models.ApprovalApproved
	}
	decidedAt := s.now()

	err = s.bookings.Transaction(ctx, func(tx *gorm.DB) error {
		fields := map[string]any{
			"status":      status,
			"approver_id": approverID,
			"approved_at": decidedAt,
		}
		if comments != "" {
			fields["comments"] = comments
		}
		if suggestedRoomID != nil {
			fields["suggested_room_id"] = *suggestedRoomID
		}
		changed, err := s.approvals.DecideIfPending(ctx, tx, approvalID, fields)
		if err != nil {
			return err
		}
		if !changed {
			return ErrAlreadyProcessed
		}

		if !approve {
			return s.bookings.UpdateStatus(ctx, tx, approval.BookingID, models.StatusCancelled)
		}

		// Room switch and status change are one write so the booking is
		// never scheduled in the original room when a suggestion exists.
		targetRoom := suggestedRoomID
		if targetRoom == nil {
			targetRoom = approval.SuggestedRoomID
		}
		if targetRoom != nil {
			scheduled, err := s.bookings.ScheduleWithRoom(ctx, tx, approval.BookingID, *targetRoom)
			if err != nil {
				return err
			}
			if !scheduled {
				return ErrInvalidState
			}
			return nil
		}

		scheduled, err := s.bookings.UpdateStatusIf(ctx, tx, approval.BookingID, models.StatusPending, models.StatusScheduled)
		if err != nil {
			return err
		}
		if !scheduled {
			return ErrInvalidState
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	decided, err := s.approvals.FindByID(ctx, approvalID)
	if err != nil {
		// The decision committed; return what we know.
		log.Printf("[approval] reload approval %d: %v", approvalID, err)
		decided = approval
	}

	if approve {
		if s.finalizer != nil {
			s.finalizer.FinalizeScheduledBooking(ctx, approval.BookingID)
		}
		s.notifyRequester(ctx, decided, "Booking approved", "your meeting request was approved", approverID)
	} else {
		msg := "your meeting request was rejected"
		if comments != "" {
			msg += ": " + comments
		}
		s.notifyRequester(ctx, decided, "Booking rejected", msg, approverID)
	}

	return decided, nil
}

func (s *approvalService) GetApproval(ctx context.Context, id uint) (*models.Approval, error) {
	approval, err := s.approvals.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return approval, nil
}

func (s *approvalService) ListPendingApprovals(ctx context.Context) ([]models.Approval, error) {
	return s.approvals.FindAllPending(ctx)
}

func (s *approvalService) notifyRequester(ctx context.Context, approval *models.Approval, title, message, fromUser string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, approval.RequesterID, title, message, fromUser); err != nil {
		log.Printf("[approval] notify %s: %v", approval.RequesterID, err)
	}
}
