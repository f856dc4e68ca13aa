package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/evergrid/lifecycle-backend/internal/pkg/logger"
	"github.com/evergrid/lifecycle-backend/internal/repos"
	"github.com/evergrid/lifecycle-backend/internal/types"
)

type SegmentInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type SegmentService interface {
	Create(ctx context.Context, input SegmentInput) (*types.Segment, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Segment, error)
	List(ctx context.Context) ([]*types.Segment, error)
	Update(ctx context.Context, id uuid.UUID, input SegmentInput) (*types.Segment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type segmentService struct {
	db          *gorm.DB
	log         *logger.Logger
	segmentRepo repos.SegmentRepo
}

func NewSegmentService(db *gorm.DB, baseLog *logger.Logger, segmentRepo repos.SegmentRepo) SegmentService {
	return &segmentService{
		db:          db,
		log:         baseLog.With("service", "SegmentService"),
		segmentRepo: segmentRepo,
	}
}

func (s *segmentService) Create(ctx context.Context, input SegmentInput) (*types.Segment, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	segment := &types.Segment{
		ID:          uuid.New(),
		Name:        name,
		Description: strings.TrimSpace(input.Description),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.segmentRepo.NameExists(ctx, tx, name)
		if err != nil {
			return err
		}
		if exists {
			return repos.ErrDuplicate
		}
		_, err = s.segmentRepo.Create(ctx, tx, []*types.Segment{segment})
		return err
	})
	if err != nil {
		s.log.Warn("Create: segment create failed", "error", err, "name", name)
		return nil, err
	}
	return segment, nil
}

func (s *segmentService) Get(ctx context.Context, id uuid.UUID) (*types.Segment, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("%w: missing segment id", ErrInvalidInput)
	}
	segments, err := s.segmentRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, repos.ErrNotFound
	}
	return segments[0], nil
}

func (s *segmentService) List(ctx context.Context) ([]*types.Segment, error) {
	return s.segmentRepo.List(ctx, nil)
}

func (s *segmentService) Update(ctx context.Context, id uuid.UUID, input SegmentInput) (*types.Segment, error) {
	name := strings.TrimSpace(input.Name)
	if id == uuid.Nil {
		return nil, fmt.Errorf("%w: missing segment id", ErrInvalidInput)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	segment := &types.Segment{
		ID:          id,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.segmentRepo.Update(ctx, tx, segment)
	})
	if err != nil {
		s.log.Warn("Update: segment update failed", "error", err, "segment_id", id)
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *segmentService) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("%w: missing segment id", ErrInvalidInput)
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.segmentRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		s.log.Warn("Delete: segment delete failed", "error", err, "segment_id", id)
	}
	return err
}
