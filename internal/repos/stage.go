package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/evergrid/lifecycle-backend/internal/pkg/logger"
	"github.com/evergrid/lifecycle-backend/internal/types"
)

type StageRepo interface {
	Create(ctx context.Context, tx *gorm.DB, stages []*types.Stage) ([]*types.Stage, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Stage, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Stage, error)
	Update(ctx context.Context, tx *gorm.DB, stage *types.Stage) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	NameExists(ctx context.Context, tx *gorm.DB, name string) (bool, error)
}

type stageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStageRepo(db *gorm.DB, baseLog *logger.Logger) StageRepo {
	repoLog := baseLog.With("repo", "StageRepo")
	return &stageRepo{db: db, log: repoLog}
}

func (sr *stageRepo) Create(ctx context.Context, tx *gorm.DB, stages []*types.Stage) ([]*types.Stage, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if len(stages) == 0 {
		return []*types.Stage{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&stages).Error; err != nil {
		return nil, MapError(err)
	}
	return stages, nil
}

func (sr *stageRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Stage, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*types.Stage
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, MapError(err)
	}
	return results, nil
}

// List returns stages in canonical lifecycle order.
func (sr *stageRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Stage, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*types.Stage
	if err := transaction.WithContext(ctx).
		Order("sort_order ASC, name ASC").
		Find(&results).Error; err != nil {
		return nil, MapError(err)
	}
	return results, nil
}

func (sr *stageRepo) Update(ctx context.Context, tx *gorm.DB, stage *types.Stage) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.Stage{}).
		Where("id = ?", stage.ID).
		Updates(map[string]interface{}{
			"name":        stage.Name,
			"description": stage.Description,
			"sort_order":  stage.SortOrder,
		})
	if res.Error != nil {
		return MapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (sr *stageRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	res := transaction.WithContext(ctx).Delete(&types.Stage{}, "id = ?", id)
	if res.Error != nil {
		return MapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (sr *stageRepo) NameExists(ctx context.Context, tx *gorm.DB, name string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Stage{}).
		Where("name = ?", name).
		Count(&count).Error; err != nil {
		return false, MapError(err)
	}
	return count > 0, nil
}
