package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brandvault/brandvault-backend/internal/types"
)

type CommentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, comment *types.Comment) error
	ListByAsset(ctx context.Context, tx *gorm.DB, assetID uuid.UUID) ([]types.Comment, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
	ClearReviewLink(ctx context.Context, tx *gorm.DB, reviewLinkID uuid.UUID) error
}

type commentRepo struct {
	db *gorm.DB
}

func NewCommentRepo(db *gorm.DB) CommentRepo {
	return &commentRepo{db: db}
}

func (r *commentRepo) Create(ctx context.Context, tx *gorm.DB, comment *types.Comment) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(comment).Error
}

func (r *commentRepo) ListByAsset(ctx context.Context, tx *gorm.DB, assetID uuid.UUID) ([]types.Comment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var comments []types.Comment
	err := transaction.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).Model(&types.Comment{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *commentRepo) ClearReviewLink(ctx context.Context, tx *gorm.DB, reviewLinkID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Comment{}).
		Where("review_link_id = ?", reviewLinkID).
		Update("review_link_id", nil).Error
}
