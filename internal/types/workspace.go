package types

import (
	"time"

	"github.com/google/uuid"
)

type Workspace struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string          `gorm:"not null;column:name" json:"name"`
	Description *string         `gorm:"column:description" json:"description,omitempty"`
	Deadline    *time.Time      `gorm:"column:deadline" json:"deadline,omitempty"`
	Status      WorkspaceStatus `gorm:"type:varchar(32);not null;column:status" json:"status"`

	ClientID    uuid.UUID `gorm:"type:uuid;not null;index;column:client_id" json:"client_id"`
	CreatedByID uuid.UUID `gorm:"type:uuid;not null;index;column:created_by_id" json:"created_by_id"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Workspace) TableName() string { return "workspace" }

type WorkspaceAssignment struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	WorkspaceID uuid.UUID `gorm:"type:uuid;not null;index:idx_workspace_user,unique,priority:1;column:workspace_id" json:"workspace_id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_workspace_user,unique,priority:2;column:user_id" json:"user_id"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (WorkspaceAssignment) TableName() string { return "workspace_assignment" }
