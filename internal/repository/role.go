package repository

import (
	"context"

	"clinic-backend/internal/models"

	"gorm.io/gorm"
)

type RoleRepository interface {
	GetByName(ctx context.Context, name string) (*models.Role, error)
	GetAll(ctx context.Context) ([]models.Role, error)
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) GetByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).First(&role, "name = ?", name).Error; err != nil {
		return nil, translate("get role", err)
	}
	return &role, nil
}

func (r *roleRepository) GetAll(ctx context.Context) ([]models.Role, error) {
	var out []models.Role
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, storage("list roles", err)
	}
	return out, nil
}
