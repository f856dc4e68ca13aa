package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/evergrid/lifecycle-backend/internal/pkg/logger"
	"github.com/evergrid/lifecycle-backend/internal/types"
)

type StageTransitionRepo interface {
	Append(ctx context.Context, tx *gorm.DB, transitions []*types.StageTransition) ([]*types.StageTransition, error)
	ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.StageTransition, error)
	ListByProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID) ([]*types.StageTransition, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.StageTransition, error)
}

type stageTransitionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStageTransitionRepo(db *gorm.DB, baseLog *logger.Logger) StageTransitionRepo {
	repoLog := baseLog.With("repo", "StageTransitionRepo")
	return &stageTransitionRepo{db: db, log: repoLog}
}

// Append is the only write path: transitions are never updated or deleted.
func (str *stageTransitionRepo) Append(ctx context.Context, tx *gorm.DB, transitions []*types.StageTransition) ([]*types.StageTransition, error) {
	transaction := tx
	if transaction == nil {
		transaction = str.db
	}
	if len(transitions) == 0 {
		return []*types.StageTransition{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&transitions).Error; err != nil {
		return nil, MapError(err)
	}
	return transitions, nil
}

func (str *stageTransitionRepo) ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.StageTransition, error) {
	transaction := tx
	if transaction == nil {
		transaction = str.db
	}
	var results []*types.StageTransition
	q := transaction.WithContext(ctx).
		Order("occurred_at DESC, created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, MapError(err)
	}
	return results, nil
}

func (str *stageTransitionRepo) ListByProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID) ([]*types.StageTransition, error) {
	transaction := tx
	if transaction == nil {
		transaction = str.db
	}
	var results []*types.StageTransition
	if err := transaction.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("occurred_at ASC, created_at ASC").
		Find(&results).Error; err != nil {
		return nil, MapError(err)
	}
	return results, nil
}

// ListAll returns the full log grouped by product and ordered within each
// product by occurrence time, which is the order the estimator consumes.
func (str *stageTransitionRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.StageTransition, error) {
	transaction := tx
	if transaction == nil {
		transaction = str.db
	}
	var results []*types.StageTransition
	if err := transaction.WithContext(ctx).
		Order("product_id ASC, occurred_at ASC, created_at ASC").
		Find(&results).Error; err != nil {
		return nil, MapError(err)
	}
	return results, nil
}
