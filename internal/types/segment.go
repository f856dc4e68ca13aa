package types

import (
	"time"

	"github.com/google/uuid"
)

// Segment is a business-unit classification products belong to
// (Corporate, Distribution, Customer Service, Generation, Transmission).
type Segment struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null;column:name" json:"name"`
	Description string    `gorm:"column:description" json:"description"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (Segment) TableName() string {
	return "segment"
}
