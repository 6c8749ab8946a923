package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brandvault/brandvault-backend/internal/types"
)

type AssetRepo interface {
	Create(ctx context.Context, tx *gorm.DB, asset *types.Asset) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Asset, error)
	GetByIDInWorkspace(ctx context.Context, tx *gorm.DB, id, workspaceID uuid.UUID) (*types.Asset, error)
	ListByWorkspace(ctx context.Context, tx *gorm.DB, workspaceID uuid.UUID) ([]types.Asset, error)
	Update(ctx context.Context, tx *gorm.DB, asset *types.Asset) error
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.AssetStatus) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
	CountByStatus(ctx context.Context, tx *gorm.DB, status types.AssetStatus) (int64, error)

	// BumpCurrentVersion is a compare-and-swap: it only succeeds when the row
	// still holds fromVersion, and returns the number of rows it changed.
	BumpCurrentVersion(ctx context.Context, tx *gorm.DB, id uuid.UUID, fromVersion, toVersion int) (int64, error)
}

type assetRepo struct {
	db *gorm.DB
}

func NewAssetRepo(db *gorm.DB) AssetRepo {
	return &assetRepo{db: db}
}

func (r *assetRepo) Create(ctx context.Context, tx *gorm.DB, asset *types.Asset) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(asset).Error
}

func (r *assetRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Asset, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var asset types.Asset
	if err := transaction.WithContext(ctx).First(&asset, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *assetRepo) GetByIDInWorkspace(ctx context.Context, tx *gorm.DB, id, workspaceID uuid.UUID) (*types.Asset, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var asset types.Asset
	if err := transaction.WithContext(ctx).First(&asset, "id = ? AND workspace_id = ?", id, workspaceID).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *assetRepo) ListByWorkspace(ctx context.Context, tx *gorm.DB, workspaceID uuid.UUID) ([]types.Asset, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var assets []types.Asset
	if err := transaction.WithContext(ctx).Where("workspace_id = ?", workspaceID).Order("created_at DESC").Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

func (r *assetRepo) Update(ctx context.Context, tx *gorm.DB, asset *types.Asset) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(asset).Error
}

func (r *assetRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.AssetStatus) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Asset{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *assetRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Delete(&types.Asset{}, "id = ?", id).Error
}

func (r *assetRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).Model(&types.Asset{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *assetRepo) CountByStatus(ctx context.Context, tx *gorm.DB, status types.AssetStatus) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).Model(&types.Asset{}).Where("status = ?", status).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *assetRepo) BumpCurrentVersion(ctx context.Context, tx *gorm.DB, id uuid.UUID, fromVersion, toVersion int) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	result := transaction.WithContext(ctx).
		Model(&types.Asset{}).
		Where("id = ? AND current_version = ?", id, fromVersion).
		Update("current_version", toVersion)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
