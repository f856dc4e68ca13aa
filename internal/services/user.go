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
	"github.com/evergrid/lifecycle-backend/internal/utils"
)

type UserInput struct {
	Email         string     `json:"email"`
	Password      string     `json:"password"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	RoleID        *uuid.UUID `json:"role_id"`
	JobPositionID *uuid.UUID `json:"job_position_id"`
}

type UserService interface {
	Create(ctx context.Context, input UserInput) (*types.User, error)
	Get(ctx context.Context, id uuid.UUID) (*types.User, error)
	List(ctx context.Context) ([]*types.User, error)
	Update(ctx context.Context, id uuid.UUID, input UserInput) (*types.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	db              *gorm.DB
	log             *logger.Logger
	userRepo        repos.UserRepo
	roleRepo        repos.RoleRepo
	jobPositionRepo repos.JobPositionRepo
}

func NewUserService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	roleRepo repos.RoleRepo,
	jobPositionRepo repos.JobPositionRepo,
) UserService {
	return &userService{
		db:              db,
		log:             baseLog.With("service", "UserService"),
		userRepo:        userRepo,
		roleRepo:        roleRepo,
		jobPositionRepo: jobPositionRepo,
	}
}

func (s *userService) Create(ctx context.Context, input UserInput) (*types.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if len(input.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}
	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := &types.User{
		ID:            uuid.New(),
		Email:         email,
		Password:      hash,
		FirstName:     strings.TrimSpace(input.FirstName),
		LastName:      strings.TrimSpace(input.LastName),
		RoleID:        input.RoleID,
		JobPositionID: input.JobPositionID,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkReferences(ctx, tx, input.RoleID, input.JobPositionID); err != nil {
			return err
		}
		exists, err := s.userRepo.EmailExists(ctx, tx, email)
		if err != nil {
			return err
		}
		if exists {
			return repos.ErrDuplicate
		}
		_, err = s.userRepo.Create(ctx, tx, []*types.User{user})
		return err
	})
	if err != nil {
		s.log.Warn("Create: user create failed", "error", err, "email", email)
		return nil, err
	}
	return user, nil
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*types.User, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidInput)
	}
	users, err := s.userRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, repos.ErrNotFound
	}
	return users[0], nil
}

func (s *userService) List(ctx context.Context) ([]*types.User, error) {
	return s.userRepo.List(ctx, nil)
}

// Update changes profile fields; the password only changes when a new one is
// supplied.
func (s *userService) Update(ctx context.Context, id uuid.UUID, input UserInput) (*types.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if id == uuid.Nil {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidInput)
	}
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	user := &types.User{
		ID:            id,
		Email:         email,
		FirstName:     strings.TrimSpace(input.FirstName),
		LastName:      strings.TrimSpace(input.LastName),
		RoleID:        input.RoleID,
		JobPositionID: input.JobPositionID,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkReferences(ctx, tx, input.RoleID, input.JobPositionID); err != nil {
			return err
		}
		if err := s.userRepo.Update(ctx, tx, user); err != nil {
			return err
		}
		if input.Password == "" {
			return nil
		}
		if len(input.Password) < 8 {
			return fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
		}
		hash, err := utils.HashPassword(input.Password)
		if err != nil {
			return err
		}
		return s.userRepo.UpdatePassword(ctx, tx, id, hash)
	})
	if err != nil {
		s.log.Warn("Update: user update failed", "error", err, "user_id", id)
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("%w: missing user id", ErrInvalidInput)
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.userRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		s.log.Warn("Delete: user delete failed", "error", err, "user_id", id)
	}
	return err
}

func (s *userService) checkReferences(ctx context.Context, tx *gorm.DB, roleID, jobPositionID *uuid.UUID) error {
	if roleID != nil && *roleID != uuid.Nil {
		roles, err := s.roleRepo.GetByIDs(ctx, tx, []uuid.UUID{*roleID})
		if err != nil {
			return err
		}
		if len(roles) == 0 {
			return fmt.Errorf("%w: role %s does not exist", ErrInvalidInput, *roleID)
		}
	}
	if jobPositionID != nil && *jobPositionID != uuid.Nil {
		positions, err := s.jobPositionRepo.GetByIDs(ctx, tx, []uuid.UUID{*jobPositionID})
		if err != nil {
			return err
		}
		if len(positions) == 0 {
			return fmt.Errorf("%w: job position %s does not exist", ErrInvalidInput, *jobPositionID)
		}
	}
	return nil
}
