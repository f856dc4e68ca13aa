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

type JobPositionInput struct {
	Title  string     `json:"title"`
	RoleID *uuid.UUID `json:"role_id"`
}

type JobPositionService interface {
	Create(ctx context.Context, input JobPositionInput) (*types.JobPosition, error)
	Get(ctx context.Context, id uuid.UUID) (*types.JobPosition, error)
	List(ctx context.Context) ([]*types.JobPosition, error)
	Update(ctx context.Context, id uuid.UUID, input JobPositionInput) (*types.JobPosition, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type jobPositionService struct {
	db              *gorm.DB
	log             *logger.Logger
	jobPositionRepo repos.JobPositionRepo
	roleRepo        repos.RoleRepo
}

func NewJobPositionService(
	db *gorm.DB,
	baseLog *logger.Logger,
	jobPositionRepo repos.JobPositionRepo,
	roleRepo repos.RoleRepo,
) JobPositionService {
	return &jobPositionService{
		db:              db,
		log:             baseLog.With("service", "JobPositionService"),
		jobPositionRepo: jobPositionRepo,
		roleRepo:        roleRepo,
	}
}

func (s *jobPositionService) Create(ctx context.Context, input JobPositionInput) (*types.JobPosition, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	position := &types.JobPosition{
		ID:     uuid.New(),
		Title:  title,
		RoleID: input.RoleID,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkRole(ctx, tx, input.RoleID); err != nil {
			return err
		}
		exists, err := s.jobPositionRepo.TitleExists(ctx, tx, title)
		if err != nil {
			return err
		}
		if exists {
			return repos.ErrDuplicate
		}
		_, err = s.jobPositionRepo.Create(ctx, tx, []*types.JobPosition{position})
		return err
	})
	if err != nil {
		s.log.Warn("Create: job position create failed", "error", err, "title", title)
		return nil, err
	}
	return position, nil
}

func (s *jobPositionService) Get(ctx context.Context, id uuid.UUID) (*types.JobPosition, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("%w: missing job position id", ErrInvalidInput)
	}
	positions, err := s.jobPositionRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(positions) == 0 {
		return nil, repos.ErrNotFound
	}
	return positions[0], nil
}

func (s *jobPositionService) List(ctx context.Context) ([]*types.JobPosition, error) {
	return s.jobPositionRepo.List(ctx, nil)
}

func (s *jobPositionService) Update(ctx context.Context, id uuid.UUID, input JobPositionInput) (*types.JobPosition, error) {
	title := strings.TrimSpace(input.Title)
	if id == uuid.Nil {
		return nil, fmt.Errorf("%w: missing job position id", ErrInvalidInput)
	}
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	position := &types.JobPosition{
		ID:     id,
		Title:  title,
		RoleID: input.RoleID,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkRole(ctx, tx, input.RoleID); err != nil {
			return err
		}
		return s.jobPositionRepo.Update(ctx, tx, position)
	})
	if err != nil {
		s.log.Warn("Update: job position update failed", "error", err, "job_position_id", id)
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *jobPositionService) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("%w: missing job position id", ErrInvalidInput)
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.jobPositionRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		s.log.Warn("Delete: job position delete failed", "error", err, "job_position_id", id)
	}
	return err
}

func (s *jobPositionService) checkRole(ctx context.Context, tx *gorm.DB, roleID *uuid.UUID) error {
	if roleID == nil || *roleID == uuid.Nil {
		return nil
	}
	roles, err := s.roleRepo.GetByIDs(ctx, tx, []uuid.UUID{*roleID})
	if err != nil {
		return err
	}
	if len(roles) == 0 {
		return fmt.Errorf("%w: role %s does not exist", ErrInvalidInput, *roleID)
	}
	return nil
}
