package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brandvault/brandvault-backend/internal/types"
)

type AssetVersionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, version *types.AssetVersion) error
	ListByAsset(ctx context.Context, tx *gorm.DB, assetID uuid.UUID) ([]types.AssetVersion, error)
	GetByNumber(ctx context.Context, tx *gorm.DB, assetID uuid.UUID, versionNumber int) (*types.AssetVersion, error)
	DeleteByAsset(ctx context.Context, tx *gorm.DB, assetID uuid.UUID) error
}

type assetVersionRepo struct {
	db *gorm.DB
}

func NewAssetVersionRepo(db *gorm.DB) AssetVersionRepo {
	return &assetVersionRepo{db: db}
}

func (r *assetVersionRepo) Create(ctx context.Context, tx *gorm.DB, version *types.AssetVersion) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(version).Error
}

func (r *assetVersionRepo) ListByAsset(ctx context.Context, tx *gorm.DB, assetID uuid.UUID) ([]types.AssetVersion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var versions []types.AssetVersion
	err := transaction.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Order("version_number DESC").
		Find(&versions).Error
	if err != nil {
		return nil, err
	}
	return versions, nil
}

func (r *assetVersionRepo) GetByNumber(ctx context.Context, tx *gorm.DB, assetID uuid.UUID, versionNumber int) (*types.AssetVersion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var version types.AssetVersion
	err := transaction.WithContext(ctx).
		First(&version, "asset_id = ? AND version_number = ?", assetID, versionNumber).Error
	if err != nil {
		return nil, err
	}
	return &version, nil
}

func (r *assetVersionRepo) DeleteByAsset(ctx context.Context, tx *gorm.DB, assetID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Where("asset_id = ?", assetID).Delete(&types.AssetVersion{}).Error
}
