package types

import (
	"time"

	"github.com/google/uuid"
)

// ReviewLink is a token-gated, time-boxed capability granting anonymous
// access to one workspace. Valid iff IsActive and not yet expired; validation
// never consumes or rotates the token.
type ReviewLink struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Token     string    `gorm:"uniqueIndex;not null;column:token" json:"token"`
	ExpiresAt time.Time `gorm:"not null;column:expires_at" json:"expires_at"`
	IsActive  bool      `gorm:"not null;column:is_active" json:"is_active"`

	WorkspaceID uuid.UUID `gorm:"type:uuid;not null;index;column:workspace_id" json:"workspace_id"`
	CreatedByID uuid.UUID `gorm:"type:uuid;not null;index;column:created_by_id" json:"created_by_id"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (ReviewLink) TableName() string { return "review_link" }
