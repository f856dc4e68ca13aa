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

type StageInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
}

type StageService interface {
	Create(ctx context.Context, input StageInput) (*types.Stage, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Stage, error)
	List(ctx context.Context) ([]*types.Stage, error)
	Update(ctx context.Context, id uuid.UUID, input StageInput) (*types.Stage, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type stageService struct {
	db        *gorm.DB
	log       *logger.Logger
	stageRepo repos.StageRepo
}

func NewStageService(db *gorm.DB, baseLog *logger.Logger, stageRepo repos.StageRepo) StageService {
	return &stageService{
		db:        db,
		log:       baseLog.With("service", "StageService"),
		stageRepo: stageRepo,
	}
}

func (s *stageService) Create(ctx context.Context, input StageInput) (*types.Stage, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	stage := &types.Stage{
		ID:          uuid.New(),
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		SortOrder:   input.SortOrder,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.stageRepo.NameExists(ctx, tx, name)
		if err != nil {
			return err
		}
		if exists {
			return repos.ErrDuplicate
		}
		_, err = s.stageRepo.Create(ctx, tx, []*types.Stage{stage})
		return err
	})
	if err != nil {
		s.log.Warn("Create: stage create failed", "error", err, "name", name)
		return nil, err
	}
	return stage, nil
}

func (s *stageService) Get(ctx context.Context, id uuid.UUID) (*types.Stage, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("%w: missing stage id", ErrInvalidInput)
	}
	stages, err := s.stageRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(stages) == 0 {
		return nil, repos.ErrNotFound
	}
	return stages[0], nil
}

func (s *stageService) List(ctx context.Context) ([]*types.Stage, error) {
	return s.stageRepo.List(ctx, nil)
}

func (s *stageService) Update(ctx context.Context, id uuid.UUID, input StageInput) (*types.Stage, error) {
	name := strings.TrimSpace(input.Name)
	if id == uuid.Nil {
		return nil, fmt.Errorf("%w: missing stage id", ErrInvalidInput)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	stage := &types.Stage{
		ID:          id,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		SortOrder:   input.SortOrder,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.stageRepo.Update(ctx, tx, stage)
	})
	if err != nil {
		s.log.Warn("Update: stage update failed", "error", err, "stage_id", id)
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *stageService) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("%w: missing stage id", ErrInvalidInput)
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.stageRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		s.log.Warn("Delete: stage delete failed", "error", err, "stage_id", id)
	}
	return err
}
