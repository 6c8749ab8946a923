package types

import (
	"time"

	"github.com/google/uuid"
)

// Comment author names are free text, not foreign keys: client reviewers
// have no account. ReviewLinkID is the provenance record for client-authored
// comments and nil for agency ones; deleting the link clears it without
// deleting the comment.
type Comment struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorName string     `gorm:"not null;column:author_name" json:"author_name"`
	AuthorType AuthorType `gorm:"type:varchar(16);not null;column:author_type" json:"author_type"`
	Content    string     `gorm:"type:text;not null;column:content" json:"content"`

	AssetID      uuid.UUID  `gorm:"type:uuid;not null;index;column:asset_id" json:"asset_id"`
	ReviewLinkID *uuid.UUID `gorm:"type:uuid;index;column:review_link_id" json:"review_link_id,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Comment) TableName() string { return "comment" }
