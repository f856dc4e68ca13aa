package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/evergrid/lifecycle-backend/internal/pkg/logger"
	"github.com/evergrid/lifecycle-backend/internal/repos"
	"github.com/evergrid/lifecycle-backend/internal/types"
)

type ChangeStageInput struct {
	StageID uuid.UUID `json:"stage_id"`
	Note    string    `json:"note"`
}

type MonitoringService interface {
	ChangeStage(ctx context.Context, productID uuid.UUID, input ChangeStageInput) (*types.StageTransition, error)
	ListRecent(ctx context.Context, limit int) ([]*types.StageTransition, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*types.StageTransition, error)
}

type monitoringService struct {
	db             *gorm.DB
	log            *logger.Logger
	productRepo    repos.ProductRepo
	stageRepo      repos.StageRepo
	segmentRepo    repos.SegmentRepo
	transitionRepo repos.StageTransitionRepo
}

func NewMonitoringService(
	db *gorm.DB,
	baseLog *logger.Logger,
	productRepo repos.ProductRepo,
	stageRepo repos.StageRepo,
	segmentRepo repos.SegmentRepo,
	transitionRepo repos.StageTransitionRepo,
) MonitoringService {
	return &monitoringService{
		db:             db,
		log:            baseLog.With("service", "MonitoringService"),
		productRepo:    productRepo,
		stageRepo:      stageRepo,
		segmentRepo:    segmentRepo,
		transitionRepo: transitionRepo,
	}
}

// ChangeStage moves a product to a new lifecycle stage and appends the
// matching log row in one transaction: either both happen or neither does.
func (s *monitoringService) ChangeStage(ctx context.Context, productID uuid.UUID, input ChangeStageInput) (*types.StageTransition, error) {
	if productID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing product id", ErrInvalidInput)
	}
	if input.StageID == uuid.Nil {
		return nil, fmt.Errorf("%w: stage_id is required", ErrInvalidInput)
	}

	var transition *types.StageTransition
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products, err := s.productRepo.GetByIDs(ctx, tx, []uuid.UUID{productID})
		if err != nil {
			return err
		}
		if len(products) == 0 {
			return repos.ErrNotFound
		}
		product := products[0]
		if product.StageID == input.StageID {
			return fmt.Errorf("%w: product is already in that stage", ErrInvalidInput)
		}

		stages, err := s.stageRepo.GetByIDs(ctx, tx, []uuid.UUID{product.StageID, input.StageID})
		if err != nil {
			return err
		}
		var fromStage, toStage *types.Stage
		for _, st := range stages {
			switch st.ID {
			case product.StageID:
				fromStage = st
			case input.StageID:
				toStage = st
			}
		}
		if toStage == nil {
			return fmt.Errorf("%w: stage %s does not exist", ErrInvalidInput, input.StageID)
		}

		segments, err := s.segmentRepo.GetByIDs(ctx, tx, []uuid.UUID{product.SegmentID})
		if err != nil {
			return err
		}
		if len(segments) == 0 {
			return repos.ErrNotFound
		}

		if err := s.productRepo.UpdateStage(ctx, tx, productID, input.StageID); err != nil {
			return err
		}

		var from *string
		if fromStage != nil {
			from = &fromStage.Name
		}
		created, err := s.transitionRepo.Append(ctx, tx, []*types.StageTransition{{
			ID:         uuid.New(),
			ProductID:  productID,
			FromStage:  from,
			ToStage:    toStage.Name,
			Segment:    segments[0].Name,
			Note:       strings.TrimSpace(input.Note),
			OccurredAt: time.Now().UTC(),
		}})
		if err != nil {
			return err
		}
		transition = created[0]
		return nil
	})
	if err != nil {
		s.log.Warn("ChangeStage: stage change failed", "error", err, "product_id", productID)
		return nil, err
	}
	s.log.Info("ChangeStage: stage changed", "product_id", productID, "to_stage", transition.ToStage)
	return transition, nil
}

func (s *monitoringService) ListRecent(ctx context.Context, limit int) ([]*types.StageTransition, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.transitionRepo.ListRecent(ctx, nil, limit)
}

func (s *monitoringService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*types.StageTransition, error) {
	if productID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing product id", ErrInvalidInput)
	}
	return s.transitionRepo.ListByProduct(ctx, nil, productID)
}
