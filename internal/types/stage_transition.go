package types

import (
	"time"

	"github.com/google/uuid"
)

// StageTransition is one row of the append-only monitoring log: a product
// moved from FromStage to ToStage at OccurredAt. FromStage is nil for a
// product's first recorded stage. Stage and segment names are denormalized
// onto the row so the log stays meaningful if master data is renamed later.
// Rows are immutable once created and never deleted.
type StageTransition struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;index;column:product_id" json:"product_id"`
	FromStage  *string   `gorm:"column:from_stage" json:"from_stage"`
	ToStage    string    `gorm:"not null;column:to_stage" json:"to_stage"`
	Segment    string    `gorm:"not null;index;column:segment" json:"segment"`
	Note       string    `gorm:"column:note" json:"note"`
	OccurredAt time.Time `gorm:"not null;index;column:occurred_at" json:"occurred_at"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

func (StageTransition) TableName() string {
	return "stage_transition"
}
