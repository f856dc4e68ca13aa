package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/evergrid/lifecycle-backend/internal/pkg/logger"
	"github.com/evergrid/lifecycle-backend/internal/types"
)

type RoleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, roles []*types.Role) ([]*types.Role, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Role, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Role, error)
	Update(ctx context.Context, tx *gorm.DB, role *types.Role) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	NameExists(ctx context.Context, tx *gorm.DB, name string) (bool, error)
}

type roleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRoleRepo(db *gorm.DB, baseLog *logger.Logger) RoleRepo {
	repoLog := baseLog.With("repo", "RoleRepo")
	return &roleRepo{db: db, log: repoLog}
}

func (rr *roleRepo) Create(ctx context.Context, tx *gorm.DB, roles []*types.Role) ([]*types.Role, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if len(roles) == 0 {
		return []*types.Role{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&roles).Error; err != nil {
		return nil, MapError(err)
	}
	return roles, nil
}

func (rr *roleRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Role, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var results []*types.Role
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

func (rr *roleRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Role, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var results []*types.Role
	if err := transaction.WithContext(ctx).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, MapError(err)
	}
	return results, nil
}

func (rr *roleRepo) Update(ctx context.Context, tx *gorm.DB, role *types.Role) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.Role{}).
		Where("id = ?", role.ID).
		Updates(map[string]interface{}{
			"name":        role.Name,
			"description": role.Description,
		})
	if res.Error != nil {
		return MapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (rr *roleRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	res := transaction.WithContext(ctx).Delete(&types.Role{}, "id = ?", id)
	if res.Error != nil {
		return MapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (rr *roleRepo) NameExists(ctx context.Context, tx *gorm.DB, name string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Role{}).
		Where("name = ?", name).
		Count(&count).Error; err != nil {
		return false, MapError(err)
	}
	return count > 0, nil
}
