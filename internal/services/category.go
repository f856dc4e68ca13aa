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

type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CategoryService interface {
	Create(ctx context.Context, input CategoryInput) (*types.Category, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Category, error)
	List(ctx context.Context) ([]*types.Category, error)
	Update(ctx context.Context, id uuid.UUID, input CategoryInput) (*types.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	db           *gorm.DB
	log          *logger.Logger
	categoryRepo repos.CategoryRepo
}

func NewCategoryService(db *gorm.DB, baseLog *logger.Logger, categoryRepo repos.CategoryRepo) CategoryService {
	return &categoryService{
		db:           db,
		log:          baseLog.With("service", "CategoryService"),
		categoryRepo: categoryRepo,
	}
}

func (s *categoryService) Create(ctx context.Context, input CategoryInput) (*types.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	category := &types.Category{
		ID:          uuid.New(),
		Name:        name,
		Description: strings.TrimSpace(input.Description),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.categoryRepo.NameExists(ctx, tx, name)
		if err != nil {
			return err
		}
		if exists {
			return repos.ErrDuplicate
		}
		_, err = s.categoryRepo.Create(ctx, tx, []*types.Category{category})
		return err
	})
	if err != nil {
		s.log.Warn("Create: category create failed", "error", err, "name", name)
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Get(ctx context.Context, id uuid.UUID) (*types.Category, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("%w: missing category id", ErrInvalidInput)
	}
	categories, err := s.categoryRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, repos.ErrNotFound
	}
	return categories[0], nil
}

func (s *categoryService) List(ctx context.Context) ([]*types.Category, error) {
	return s.categoryRepo.List(ctx, nil)
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, input CategoryInput) (*types.Category, error) {
	name := strings.TrimSpace(input.Name)
	if id == uuid.Nil {
		return nil, fmt.Errorf("%w: missing category id", ErrInvalidInput)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	category := &types.Category{
		ID:          id,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.categoryRepo.Update(ctx, tx, category)
	})
	if err != nil {
		s.log.Warn("Update: category update failed", "error", err, "category_id", id)
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("%w: missing category id", ErrInvalidInput)
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.categoryRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		s.log.Warn("Delete: category delete failed", "error", err, "category_id", id)
	}
	return err
}
