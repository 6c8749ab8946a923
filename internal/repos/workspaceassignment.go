package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brandvault/brandvault-backend/internal/types"
)

type WorkspaceAssignmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, assignment *types.WorkspaceAssignment) error
	Exists(ctx context.Context, tx *gorm.DB, workspaceID, userID uuid.UUID) (bool, error)
	ListByWorkspace(ctx context.Context, tx *gorm.DB, workspaceID uuid.UUID) ([]types.WorkspaceAssignment, error)
	Delete(ctx context.Context, tx *gorm.DB, workspaceID, userID uuid.UUID) error
}

type workspaceAssignmentRepo struct {
	db *gorm.DB
}

func NewWorkspaceAssignmentRepo(db *gorm.DB) WorkspaceAssignmentRepo {
	return &workspaceAssignmentRepo{db: db}
}

func (r *workspaceAssignmentRepo) Create(ctx context.Context, tx *gorm.DB, assignment *types.WorkspaceAssignment) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(assignment).Error
}

func (r *workspaceAssignmentRepo) Exists(ctx context.Context, tx *gorm.DB, workspaceID, userID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	err := transaction.WithContext(ctx).
		Model(&types.WorkspaceAssignment{}).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *workspaceAssignmentRepo) ListByWorkspace(ctx context.Context, tx *gorm.DB, workspaceID uuid.UUID) ([]types.WorkspaceAssignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var assignments []types.WorkspaceAssignment
	if err := transaction.WithContext(ctx).Where("workspace_id = ?", workspaceID).Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *workspaceAssignmentRepo) Delete(ctx context.Context, tx *gorm.DB, workspaceID, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		Delete(&types.WorkspaceAssignment{}).Error
}
