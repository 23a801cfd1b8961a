package repository

import (
	"context"
	"errors"

	"github.com/meetsync/reservation-service/internal/models"
	"gorm.io/gorm"
)

type ApprovalRepository interface {
	Create(ctx context.Context, tx *gorm.DB, approval *models.Approval) error
	FindByID(ctx context.Context, id uint) (*models.Approval, error)
	FindPendingByBookingID(ctx context.Context, tx *gorm.DB, bookingID uint) (*models.Approval, error)
	FindAllPending(ctx context.Context) ([]models.Approval, error)
	DecideIfPending(ctx context.Context, tx *gorm.DB, id uint, fields map[string]any) (bool, error)
	UpdateSuggestionIfPending(ctx context.Context, id uint, suggestedRoomID uint, comments string) (bool, error)
}

type approvalRepository struct {
	db *gorm.DB
}

func NewApprovalRepository(db *gorm.DB) ApprovalRepository {
	return &approvalRepository{db: db}
}

func (r *approvalRepository) Create(ctx context.Context, tx *gorm.DB, approval *models.Approval) error {
	return tx.WithContext(ctx).Create(approval).Error
}

func (r *approvalRepository) FindByID(ctx context.Context, id uint) (*models.Approval, error) {
	var approval models.Approval
	if err := r.db.WithContext(ctx).First(&approval, id).Error; err != nil {
		return nil, err
	}
	return &approval, nil
}

func (r *approvalRepository) FindPendingByBookingID(ctx context.Context, tx *gorm.DB, bookingID uint) (*models.Approval, error) {
	var approval models.Approval
	err := tx.WithContext(ctx).
		Where("booking_id = ? AND status = ?", bookingID, models.ApprovalPending).
		First(&approval).Error
	if err != nil {
		return nil, err
	}
	return &approval, nil
}

func (r *approvalRepository) FindAllPending(ctx context.Context) ([]models.Approval, error) {
	var approvals []models.Approval
	err := r.db.WithContext(ctx).
		Preload("Booking").
		Where("status = ?", models.ApprovalPending).
		Order("requested_at ASC").
		Find(&approvals).Error
	if err != nil {
		return nil, err
	}
	return approvals, nil
}

// DecideIfPending applies the decision fields only while the approval is
// still pending, reporting whether the row changed. A second decision on the
// same approval therefore touches nothing.
func (r *approvalRepository) DecideIfPending(ctx context.Context, tx *gorm.DB, id uint, fields map[string]any) (bool, error) {
	res := tx.WithContext(ctx).
		Model(&models.Approval{}).
		Where("id = ? AND status = ?", id, models.ApprovalPending).
		Updates(fields)
	return res.RowsAffected > 0, res.Error
}

// UpdateSuggestionIfPending records a non-binding counter-offer without
// changing the approval status.
func (r *approvalRepository) UpdateSuggestionIfPending(ctx context.Context, id uint, suggestedRoomID uint, comments string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Approval{}).
		Where("id = ? AND status = ?", id, models.ApprovalPending).
		Updates(map[string]any{
			"suggested_room_id": suggestedRoomID,
			"comments":          comments,
		})
	return res.RowsAffected > 0, res.Error
}

// IsNotFound reports whether err is gorm's record-not-found.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
