package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brandvault/brandvault-backend/internal/types"
)

type ReviewLinkRepo interface {
	Create(ctx context.Context, tx *gorm.DB, link *types.ReviewLink) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ReviewLink, error)
	GetByToken(ctx context.Context, tx *gorm.DB, token string) (*types.ReviewLink, error)
	ListByWorkspace(ctx context.Context, tx *gorm.DB, workspaceID uuid.UUID) ([]types.ReviewLink, error)
	Update(ctx context.Context, tx *gorm.DB, link *types.ReviewLink) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	CountActive(ctx context.Context, tx *gorm.DB, now time.Time) (int64, error)
}

type reviewLinkRepo struct {
	db *gorm.DB
}

func NewReviewLinkRepo(db *gorm.DB) ReviewLinkRepo {
	return &reviewLinkRepo{db: db}
}

func (r *reviewLinkRepo) Create(ctx context.Context, tx *gorm.DB, link *types.ReviewLink) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(link).Error
}

func (r *reviewLinkRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ReviewLink, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var link types.ReviewLink
	if err := transaction.WithContext(ctx).First(&link, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *reviewLinkRepo) GetByToken(ctx context.Context, tx *gorm.DB, token string) (*types.ReviewLink, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var link types.ReviewLink
	if err := transaction.WithContext(ctx).First(&link, "token = ?", token).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *reviewLinkRepo) ListByWorkspace(ctx context.Context, tx *gorm.DB, workspaceID uuid.UUID) ([]types.ReviewLink, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var links []types.ReviewLink
	err := transaction.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("created_at DESC").
		Find(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

func (r *reviewLinkRepo) Update(ctx context.Context, tx *gorm.DB, link *types.ReviewLink) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(link).Error
}

func (r *reviewLinkRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Delete(&types.ReviewLink{}, "id = ?", id).Error
}

func (r *reviewLinkRepo) CountActive(ctx context.Context, tx *gorm.DB, now time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	err := transaction.WithContext(ctx).
		Model(&types.ReviewLink{}).
		Where("is_active = ? AND expires_at > ?", true, now).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
