package types

import (
	"time"

	"github.com/google/uuid"
)

type Client struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string    `gorm:"not null;column:name" json:"name"`
	Company  string    `gorm:"not null;column:company" json:"company"`
	Email    string    `gorm:"not null;column:email" json:"email"`
	Phone    *string   `gorm:"column:phone" json:"phone,omitempty"`
	Industry *string   `gorm:"column:industry" json:"industry,omitempty"`

	CreatedByID uuid.UUID `gorm:"type:uuid;not null;index;column:created_by_id" json:"created_by_id"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Client) TableName() string { return "client" }
