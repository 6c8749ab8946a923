package types

import (
	"time"

	"github.com/google/uuid"
)

// Asset is a reviewable file. CurrentVersion always equals the highest
// version number ever allocated for it; version numbering starts at 1 and
// never skips, so it also equals the AssetVersion row count.
type Asset struct {
	ID             uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string      `gorm:"not null;column:name" json:"name"`
	FileType       string      `gorm:"not null;column:file_type" json:"file_type"` // extension incl. dot, e.g. ".png"
	CurrentVersion int         `gorm:"not null;column:current_version" json:"current_version"`
	Status         AssetStatus `gorm:"type:varchar(32);not null;index;column:status" json:"status"`

	WorkspaceID  uuid.UUID `gorm:"type:uuid;not null;index;column:workspace_id" json:"workspace_id"`
	UploadedByID uuid.UUID `gorm:"type:uuid;not null;index;column:uploaded_by_id" json:"uploaded_by_id"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Asset) TableName() string { return "asset" }

// AssetVersion rows are immutable once created: never edited or renumbered,
// only appended.
type AssetVersion struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	VersionNumber int       `gorm:"not null;index:idx_asset_version,unique,priority:2;column:version_number" json:"version_number"`
	FilePath      string    `gorm:"not null;column:file_path" json:"file_path"`
	ThumbnailPath *string   `gorm:"column:thumbnail_path" json:"thumbnail_path,omitempty"`
	FileSize      int64     `gorm:"not null;column:file_size" json:"file_size"`

	AssetID      uuid.UUID `gorm:"type:uuid;not null;index:idx_asset_version,unique,priority:1;column:asset_id" json:"asset_id"`
	UploadedByID uuid.UUID `gorm:"type:uuid;not null;index;column:uploaded_by_id" json:"uploaded_by_id"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (AssetVersion) TableName() string { return "asset_version" }
