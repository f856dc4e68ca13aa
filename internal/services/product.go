package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/evergrid/lifecycle-backend/internal/pkg/logger"
	"github.com/evergrid/lifecycle-backend/internal/repos"
	"github.com/evergrid/lifecycle-backend/internal/types"
)

type ProductInput struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	CategoryID  uuid.UUID      `json:"category_id"`
	SegmentID   uuid.UUID      `json:"segment_id"`
	StageID     uuid.UUID      `json:"stage_id"`
	Attrs       datatypes.JSON `json:"attrs"`
}

type ProductService interface {
	Create(ctx context.Context, input ProductInput) (*types.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Product, error)
	List(ctx context.Context) ([]*types.Product, error)
	Update(ctx context.Context, id uuid.UUID, input ProductInput) (*types.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	db             *gorm.DB
	log            *logger.Logger
	productRepo    repos.ProductRepo
	categoryRepo   repos.CategoryRepo
	segmentRepo    repos.SegmentRepo
	stageRepo      repos.StageRepo
	transitionRepo repos.StageTransitionRepo
}

func NewProductService(
	db *gorm.DB,
	baseLog *logger.Logger,
	productRepo repos.ProductRepo,
	categoryRepo repos.CategoryRepo,
	segmentRepo repos.SegmentRepo,
	stageRepo repos.StageRepo,
	transitionRepo repos.StageTransitionRepo,
) ProductService {
	return &productService{
		db:             db,
		log:            baseLog.With("service", "ProductService"),
		productRepo:    productRepo,
		categoryRepo:   categoryRepo,
		segmentRepo:    segmentRepo,
		stageRepo:      stageRepo,
		transitionRepo: transitionRepo,
	}
}

// Create inserts the product and appends its first monitoring-log row (a
// transition with no origin stage) in the same transaction, so every product
// enters the log the moment it exists.
func (s *productService) Create(ctx context.Context, input ProductInput) (*types.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if input.CategoryID == uuid.Nil || input.SegmentID == uuid.Nil || input.StageID == uuid.Nil {
		return nil, fmt.Errorf("%w: category_id, segment_id and stage_id are required", ErrInvalidInput)
	}
	now := time.Now().UTC()
	product := &types.Product{
		ID:             uuid.New(),
		Name:           name,
		Description:    strings.TrimSpace(input.Description),
		CategoryID:     input.CategoryID,
		SegmentID:      input.SegmentID,
		StageID:        input.StageID,
		Attrs:          input.Attrs,
		StageChangedAt: now,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		segment, stage, err := s.resolveReferences(ctx, tx, input)
		if err != nil {
			return err
		}
		if _, err := s.productRepo.Create(ctx, tx, []*types.Product{product}); err != nil {
			return err
		}
		_, err = s.transitionRepo.Append(ctx, tx, []*types.StageTransition{{
			ID:         uuid.New(),
			ProductID:  product.ID,
			FromStage:  nil,
			ToStage:    stage.Name,
			Segment:    segment.Name,
			OccurredAt: now,
		}})
		return err
	})
	if err != nil {
		s.log.Warn("Create: product create failed", "error", err, "name", name)
		return nil, err
	}
	return product, nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*types.Product, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("%w: missing product id", ErrInvalidInput)
	}
	products, err := s.productRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, repos.ErrNotFound
	}
	return products[0], nil
}

func (s *productService) List(ctx context.Context) ([]*types.Product, error) {
	return s.productRepo.List(ctx, nil)
}

// Update changes master-data fields only. Stage changes go through
// MonitoringService so the log stays complete.
func (s *productService) Update(ctx context.Context, id uuid.UUID, input ProductInput) (*types.Product, error) {
	name := strings.TrimSpace(input.Name)
	if id == uuid.Nil {
		return nil, fmt.Errorf("%w: missing product id", ErrInvalidInput)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if input.CategoryID == uuid.Nil || input.SegmentID == uuid.Nil {
		return nil, fmt.Errorf("%w: category_id and segment_id are required", ErrInvalidInput)
	}
	product := &types.Product{
		ID:          id,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		CategoryID:  input.CategoryID,
		SegmentID:   input.SegmentID,
		Attrs:       input.Attrs,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		categories, err := s.categoryRepo.GetByIDs(ctx, tx, []uuid.UUID{input.CategoryID})
		if err != nil {
			return err
		}
		if len(categories) == 0 {
			return fmt.Errorf("%w: category %s does not exist", ErrInvalidInput, input.CategoryID)
		}
		segments, err := s.segmentRepo.GetByIDs(ctx, tx, []uuid.UUID{input.SegmentID})
		if err != nil {
			return err
		}
		if len(segments) == 0 {
			return fmt.Errorf("%w: segment %s does not exist", ErrInvalidInput, input.SegmentID)
		}
		return s.productRepo.Update(ctx, tx, product)
	})
	if err != nil {
		s.log.Warn("Update: product update failed", "error", err, "product_id", id)
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("%w: missing product id", ErrInvalidInput)
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.productRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		s.log.Warn("Delete: product delete failed", "error", err, "product_id", id)
	}
	return err
}

func (s *productService) resolveReferences(ctx context.Context, tx *gorm.DB, input ProductInput) (*types.Segment, *types.Stage, error) {
	categories, err := s.categoryRepo.GetByIDs(ctx, tx, []uuid.UUID{input.CategoryID})
	if err != nil {
		return nil, nil, err
	}
	if len(categories) == 0 {
		return nil, nil, fmt.Errorf("%w: category %s does not exist", ErrInvalidInput, input.CategoryID)
	}
	segments, err := s.segmentRepo.GetByIDs(ctx, tx, []uuid.UUID{input.SegmentID})
	if err != nil {
		return nil, nil, err
	}
	if len(segments) == 0 {
		return nil, nil, fmt.Errorf("%w: segment %s does not exist", ErrInvalidInput, input.SegmentID)
	}
	stages, err := s.stageRepo.GetByIDs(ctx, tx, []uuid.UUID{input.StageID})
	if err != nil {
		return nil, nil, err
	}
	if len(stages) == 0 {
		return nil, nil, fmt.Errorf("%w: stage %s does not exist", ErrInvalidInput, input.StageID)
	}
	return segments[0], stages[0], nil
}
