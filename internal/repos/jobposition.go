package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/evergrid/lifecycle-backend/internal/pkg/logger"
	"github.com/evergrid/lifecycle-backend/internal/types"
)

type JobPositionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, positions []*types.JobPosition) ([]*types.JobPosition, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.JobPosition, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.JobPosition, error)
	Update(ctx context.Context, tx *gorm.DB, position *types.JobPosition) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	TitleExists(ctx context.Context, tx *gorm.DB, title string) (bool, error)
}

type jobPositionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewJobPositionRepo(db *gorm.DB, baseLog *logger.Logger) JobPositionRepo {
	repoLog := baseLog.With("repo", "JobPositionRepo")
	return &jobPositionRepo{db: db, log: repoLog}
}

func (jr *jobPositionRepo) Create(ctx context.Context, tx *gorm.DB, positions []*types.JobPosition) ([]*types.JobPosition, error) {
	transaction := tx
	if transaction == nil {
		transaction = jr.db
	}
	if len(positions) == 0 {
		return []*types.JobPosition{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&positions).Error; err != nil {
		return nil, MapError(err)
	}
	return positions, nil
}

func (jr *jobPositionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.JobPosition, error) {
	transaction := tx
	if transaction == nil {
		transaction = jr.db
	}
	var results []*types.JobPosition
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

func (jr *jobPositionRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.JobPosition, error) {
	transaction := tx
	if transaction == nil {
		transaction = jr.db
	}
	var results []*types.JobPosition
	if err := transaction.WithContext(ctx).
		Order("title ASC").
		Find(&results).Error; err != nil {
		return nil, MapError(err)
	}
	return results, nil
}

func (jr *jobPositionRepo) Update(ctx context.Context, tx *gorm.DB, position *types.JobPosition) error {
	transaction := tx
	if transaction == nil {
		transaction = jr.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.JobPosition{}).
		Where("id = ?", position.ID).
		Updates(map[string]interface{}{
			"title":   position.Title,
			"role_id": position.RoleID,
		})
	if res.Error != nil {
		return MapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (jr *jobPositionRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = jr.db
	}
	res := transaction.WithContext(ctx).Delete(&types.JobPosition{}, "id = ?", id)
	if res.Error != nil {
		return MapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (jr *jobPositionRepo) TitleExists(ctx context.Context, tx *gorm.DB, title string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = jr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.JobPosition{}).
		Where("title = ?", title).
		Count(&count).Error; err != nil {
		return false, MapError(err)
	}
	return count > 0, nil
}
