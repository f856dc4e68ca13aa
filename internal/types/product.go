package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Product struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string         `gorm:"not null;index;column:name" json:"name"`
	Description    string         `gorm:"column:description" json:"description"`
	CategoryID     uuid.UUID      `gorm:"type:uuid;not null;index;column:category_id" json:"category_id"`
	SegmentID      uuid.UUID      `gorm:"type:uuid;not null;index;column:segment_id" json:"segment_id"`
	StageID        uuid.UUID      `gorm:"type:uuid;not null;index;column:stage_id" json:"stage_id"`
	Attrs          datatypes.JSON `gorm:"column:attrs" json:"attrs"`
	StageChangedAt time.Time      `gorm:"not null;column:stage_changed_at" json:"stage_changed_at"`
	CreatedAt      time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null" json:"updated_at"`
}

func (Product) TableName() string {
	return "product"
}
