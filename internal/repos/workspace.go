package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brandvault/brandvault-backend/internal/types"
)

type WorkspaceRepo interface {
	Create(ctx context.Context, tx *gorm.DB, workspace *types.Workspace) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Workspace, error)
	List(ctx context.Context, tx *gorm.DB) ([]types.Workspace, error)
	ListByClient(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) ([]types.Workspace, error)
	Update(ctx context.Context, tx *gorm.DB, workspace *types.Workspace) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
	CountByStatus(ctx context.Context, tx *gorm.DB, status types.WorkspaceStatus) (int64, error)
}

type workspaceRepo struct {
	db *gorm.DB
}

func NewWorkspaceRepo(db *gorm.DB) WorkspaceRepo {
	return &workspaceRepo{db: db}
}

func (r *workspaceRepo) Create(ctx context.Context, tx *gorm.DB, workspace *types.Workspace) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(workspace).Error
}

func (r *workspaceRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Workspace, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var workspace types.Workspace
	if err := transaction.WithContext(ctx).First(&workspace, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &workspace, nil
}

func (r *workspaceRepo) List(ctx context.Context, tx *gorm.DB) ([]types.Workspace, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var workspaces []types.Workspace
	if err := transaction.WithContext(ctx).Order("created_at DESC").Find(&workspaces).Error; err != nil {
		return nil, err
	}
	return workspaces, nil
}

func (r *workspaceRepo) ListByClient(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) ([]types.Workspace, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var workspaces []types.Workspace
	if err := transaction.WithContext(ctx).Where("client_id = ?", clientID).Order("created_at DESC").Find(&workspaces).Error; err != nil {
		return nil, err
	}
	return workspaces, nil
}

func (r *workspaceRepo) Update(ctx context.Context, tx *gorm.DB, workspace *types.Workspace) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(workspace).Error
}

func (r *workspaceRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Delete(&types.Workspace{}, "id = ?", id).Error
}

func (r *workspaceRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).Model(&types.Workspace{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *workspaceRepo) CountByStatus(ctx context.Context, tx *gorm.DB, status types.WorkspaceStatus) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).Model(&types.Workspace{}).Where("status = ?", status).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
