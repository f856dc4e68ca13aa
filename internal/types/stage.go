package types

import (
	"time"

	"github.com/google/uuid"
)

// Stage is one phase of a product's commercial lifecycle
// (Introduction, Growth, Maturity, Decline). SortOrder drives the
// canonical progression shown in dashboards.
type Stage struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null;column:name" json:"name"`
	Description string    `gorm:"column:description" json:"description"`
	SortOrder   int       `gorm:"not null;default:0;column:sort_order" json:"sort_order"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (Stage) TableName() string {
	return "stage"
}
