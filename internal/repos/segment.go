package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/evergrid/lifecycle-backend/internal/pkg/logger"
	"github.com/evergrid/lifecycle-backend/internal/types"
)

type SegmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, segments []*types.Segment) ([]*types.Segment, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Segment, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Segment, error)
	Update(ctx context.Context, tx *gorm.DB, segment *types.Segment) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	NameExists(ctx context.Context, tx *gorm.DB, name string) (bool, error)
}

type segmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSegmentRepo(db *gorm.DB, baseLog *logger.Logger) SegmentRepo {
	repoLog := baseLog.With("repo", "SegmentRepo")
	return &segmentRepo{db: db, log: repoLog}
}

func (sr *segmentRepo) Create(ctx context.Context, tx *gorm.DB, segments []*types.Segment) ([]*types.Segment, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if len(segments) == 0 {
		return []*types.Segment{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&segments).Error; err != nil {
		return nil, MapError(err)
	}
	return segments, nil
}

func (sr *segmentRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Segment, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*types.Segment
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

func (sr *segmentRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Segment, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*types.Segment
	if err := transaction.WithContext(ctx).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, MapError(err)
	}
	return results, nil
}

func (sr *segmentRepo) Update(ctx context.Context, tx *gorm.DB, segment *types.Segment) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.Segment{}).
		Where("id = ?", segment.ID).
		Updates(map[string]interface{}{
			"name":        segment.Name,
			"description": segment.Description,
		})
	if res.Error != nil {
		return MapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (sr *segmentRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	res := transaction.WithContext(ctx).Delete(&types.Segment{}, "id = ?", id)
	if res.Error != nil {
		return MapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (sr *segmentRepo) NameExists(ctx context.Context, tx *gorm.DB, name string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Segment{}).
		Where("name = ?", name).
		Count(&count).Error; err != nil {
		return false, MapError(err)
	}
	return count > 0, nil
}
