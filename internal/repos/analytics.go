package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/evergrid/lifecycle-backend/internal/pkg/logger"
	"github.com/evergrid/lifecycle-backend/internal/types"
)

// StageCount is a product count keyed by stage name.
type StageCount struct {
	Stage string `json:"stage"`
	Count int64  `json:"count"`
}

// SegmentStageCount is a product count keyed by segment and stage name.
type SegmentStageCount struct {
	Segment string `json:"segment"`
	Stage   string `json:"stage"`
	Count   int64  `json:"count"`
}

// SegmentCount is a product count keyed by segment name.
type SegmentCount struct {
	Segment string `json:"segment"`
	Count   int64  `json:"count"`
}

// TransitionCount is a completed-transition count keyed by origin and
// destination stage.
type TransitionCount struct {
	FromStage string `json:"from_stage"`
	ToStage   string `json:"to_stage"`
	Count     int64  `json:"count"`
}

type AnalyticsRepo interface {
	DistributionCounts(ctx context.Context, tx *gorm.DB) ([]StageCount, error)
	CurrentStageCounts(ctx context.Context, tx *gorm.DB) ([]SegmentStageCount, error)
	MatrixCounts(ctx context.Context, tx *gorm.DB) ([]TransitionCount, error)
	SegmentProductCounts(ctx context.Context, tx *gorm.DB) ([]SegmentCount, error)
}

type analyticsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAnalyticsRepo(db *gorm.DB, baseLog *logger.Logger) AnalyticsRepo {
	repoLog := baseLog.With("repo", "AnalyticsRepo")
	return &analyticsRepo{db: db, log: repoLog}
}

func (ar *analyticsRepo) DistributionCounts(ctx context.Context, tx *gorm.DB) ([]StageCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var results []StageCount
	if err := transaction.WithContext(ctx).
		Model(&types.Product{}).
		Select("stage.name AS stage, COUNT(product.id) AS count").
		Joins("JOIN stage ON stage.id = product.stage_id").
		Group("stage.name").
		Order("stage.name ASC").
		Scan(&results).Error; err != nil {
		return nil, MapError(err)
	}
	return results, nil
}

// CurrentStageCounts snapshots how many products sit in each segment/stage
// pair right now. The estimator joins its predictions against this.
func (ar *analyticsRepo) CurrentStageCounts(ctx context.Context, tx *gorm.DB) ([]SegmentStageCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var results []SegmentStageCount
	if err := transaction.WithContext(ctx).
		Model(&types.Product{}).
		Select("segment.name AS segment, stage.name AS stage, COUNT(product.id) AS count").
		Joins("JOIN segment ON segment.id = product.segment_id").
		Joins("JOIN stage ON stage.id = product.stage_id").
		Group("segment.name, stage.name").
		Order("segment.name ASC, stage.name ASC").
		Scan(&results).Error; err != nil {
		return nil, MapError(err)
	}
	return results, nil
}

// MatrixCounts aggregates the transition log into the from→to matrix.
// First-assignment rows carry no origin stage and are left out.
func (ar *analyticsRepo) MatrixCounts(ctx context.Context, tx *gorm.DB) ([]TransitionCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var results []TransitionCount
	if err := transaction.WithContext(ctx).
		Model(&types.StageTransition{}).
		Select("from_stage, to_stage, COUNT(id) AS count").
		Where("from_stage IS NOT NULL AND from_stage <> ''").
		Group("from_stage, to_stage").
		Order("from_stage ASC, to_stage ASC").
		Scan(&results).Error; err != nil {
		return nil, MapError(err)
	}
	return results, nil
}

func (ar *analyticsRepo) SegmentProductCounts(ctx context.Context, tx *gorm.DB) ([]SegmentCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var results []SegmentCount
	if err := transaction.WithContext(ctx).
		Model(&types.Product{}).
		Select("segment.name AS segment, COUNT(product.id) AS count").
		Joins("JOIN segment ON segment.id = product.segment_id").
		Group("segment.name").
		Order("segment.name ASC").
		Scan(&results).Error; err != nil {
		return nil, MapError(err)
	}
	return results, nil
}
