package types

import (
	"time"

	"github.com/google/uuid"
)

type JobPosition struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string     `gorm:"uniqueIndex;not null;column:title" json:"title"`
	RoleID    *uuid.UUID `gorm:"type:uuid;index;column:role_id" json:"role_id"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null" json:"updated_at"`
}

func (JobPosition) TableName() string {
	return "job_position"
}
