package types

import (
	"time"

	"github.com/google/uuid"
)

// ApprovalAction is the decision log. Writing one is the only operation that
// mutates Asset.Status, and the two writes commit in the same transaction.
type ApprovalAction struct {
	ID         uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	ActionType ApprovalActionType `gorm:"type:varchar(32);not null;column:action_type" json:"action_type"`
	Comment    *string            `gorm:"type:text;column:comment" json:"comment,omitempty"`
	DoneByName string             `gorm:"not null;column:done_by_name" json:"done_by_name"`
	DoneByType AuthorType         `gorm:"type:varchar(16);not null;column:done_by_type" json:"done_by_type"`

	AssetID      uuid.UUID  `gorm:"type:uuid;not null;index;column:asset_id" json:"asset_id"`
	ReviewLinkID *uuid.UUID `gorm:"type:uuid;index;column:review_link_id" json:"review_link_id,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (ApprovalAction) TableName() string { return "approval_action" }
