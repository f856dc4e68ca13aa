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

type RoleInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type RoleService interface {
	Create(ctx context.Context, input RoleInput) (*types.Role, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Role, error)
	List(ctx context.Context) ([]*types.Role, error)
	Update(ctx context.Context, id uuid.UUID, input RoleInput) (*types.Role, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type roleService struct {
	db       *gorm.DB
	log      *logger.Logger
	roleRepo repos.RoleRepo
}

func NewRoleService(db *gorm.DB, baseLog *logger.Logger, roleRepo repos.RoleRepo) RoleService {
	return &roleService{
		db:       db,
		log:      baseLog.With("service", "RoleService"),
		roleRepo: roleRepo,
	}
}

func (s *roleService) Create(ctx context.Context, input RoleInput) (*types.Role, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	role := &types.Role{
		ID:          uuid.New(),
		Name:        name,
		Description: strings.TrimSpace(input.Description),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.roleRepo.NameExists(ctx, tx, name)
		if err != nil {
			return err
		}
		if exists {
			return repos.ErrDuplicate
		}
		_, err = s.roleRepo.Create(ctx, tx, []*types.Role{role})
		return err
	})
	if err != nil {
		s.log.Warn("Create: role create failed", "error", err, "name", name)
		return nil, err
	}
	return role, nil
}

func (s *roleService) Get(ctx context.Context, id uuid.UUID) (*types.Role, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("%w: missing role id", ErrInvalidInput)
	}
	roles, err := s.roleRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return nil, repos.ErrNotFound
	}
	return roles[0], nil
}

func (s *roleService) List(ctx context.Context) ([]*types.Role, error) {
	return s.roleRepo.List(ctx, nil)
}

func (s *roleService) Update(ctx context.Context, id uuid.UUID, input RoleInput) (*types.Role, error) {
	name := strings.TrimSpace(input.Name)
	if id == uuid.Nil {
		return nil, fmt.Errorf("%w: missing role id", ErrInvalidInput)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	role := &types.Role{
		ID:          id,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.roleRepo.Update(ctx, tx, role)
	})
	if err != nil {
		s.log.Warn("Update: role update failed", "error", err, "role_id", id)
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *roleService) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("%w: missing role id", ErrInvalidInput)
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.roleRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		s.log.Warn("Delete: role delete failed", "error", err, "role_id", id)
	}
	return err
}
