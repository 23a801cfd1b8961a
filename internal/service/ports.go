package service

import (
	"context"
	"time"

	"github.com/meetsync/reservation-service/internal/models"
)

// Notifier delivers user-facing messages. Implementations are fire-and-
// forget; callers log and swallow failures, never propagate them.
type Notifier interface {
	Notify(ctx context.Context, userID, title, message, fromUser string) error
}

// MeetingEvent is the artifact returned by the external conferencing API.
type MeetingEvent struct {
	ExternalEventID string
	JoinURL         string
}

// MeetingLinker creates a calendar event with a join link for a scheduled
// booking. Failure is non-fatal to the booking itself.
type MeetingLinker interface {
	CreateMeetingEvent(ctx context.Context, booking *models.Booking, attendeeEmails []string) (*MeetingEvent, error)
}

// ApprovalPolicy decides whether an organizer's bookings need manager
// sign-off before they are scheduled.
type ApprovalPolicy interface {
	RequiresApproval(user *models.User) bool
}

// RoleApprovalPolicy exempts the listed roles from approval and requires it
// for everyone else.
type RoleApprovalPolicy struct {
	exempt map[string]bool
}

func NewRoleApprovalPolicy(exemptRoles ...string) *RoleApprovalPolicy {
	exempt := make(map[string]bool, len(exemptRoles))
	for _, r := range exemptRoles {
		exempt[r] = true
	}
	return &RoleApprovalPolicy{exempt: exempt}
}

func (p *RoleApprovalPolicy) RequiresApproval(user *models.User) bool {
	if user == nil {
		return true
	}
	return !p.exempt[user.Role]
}

// Clock is the injected time source; tests pin it.
type Clock func() time.Time
