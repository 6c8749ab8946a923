package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brandvault/brandvault-backend/internal/types"
)

type ApprovalActionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, action *types.ApprovalAction) error
	ListByAsset(ctx context.Context, tx *gorm.DB, assetID uuid.UUID) ([]types.ApprovalAction, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
	ClearReviewLink(ctx context.Context, tx *gorm.DB, reviewLinkID uuid.UUID) error
}

type approvalActionRepo struct {
	db *gorm.DB
}

func NewApprovalActionRepo(db *gorm.DB) ApprovalActionRepo {
	return &approvalActionRepo{db: db}
}

func (r *approvalActionRepo) Create(ctx context.Context, tx *gorm.DB, action *types.ApprovalAction) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(action).Error
}

func (r *approvalActionRepo) ListByAsset(ctx context.Context, tx *gorm.DB, assetID uuid.UUID) ([]types.ApprovalAction, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var actions []types.ApprovalAction
	err := transaction.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Order("created_at DESC").
		Find(&actions).Error
	if err != nil {
		return nil, err
	}
	return actions, nil
}

func (r *approvalActionRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).Model(&types.ApprovalAction{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *approvalActionRepo) ClearReviewLink(ctx context.Context, tx *gorm.DB, reviewLinkID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.ApprovalAction{}).
		Where("review_link_id = ?", reviewLinkID).
		Update("review_link_id", nil).Error
}
