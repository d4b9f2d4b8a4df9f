package repository

import (
	"context"
	"strings"

	"clinic-backend/internal/models"

	"gorm.io/gorm"
)

// StaffRepository reads and writes staff rows. Writes that must stay atomic
// with the login account go through StaffAccountService instead.
type StaffRepository interface {
	Create(ctx context.Context, s *models.Staff) (uint, error)
	GetByID(ctx context.Context, id uint) (*models.Staff, error)
	GetAll(ctx context.Context) ([]models.Staff, error)
	Update(ctx context.Context, s *models.Staff) error
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, term string) ([]models.Staff, error)
	GetByUsername(ctx context.Context, username string) (*models.Staff, error)
	CountByRole(ctx context.Context, roleName string) (int64, error)
}

type staffRepository struct {
	db *gorm.DB
}

func NewStaffRepository(db *gorm.DB) StaffRepository {
	return &staffRepository{db: db}
}

func (r *staffRepository) Create(ctx context.Context, s *models.Staff) (uint, error) {
	if strings.TrimSpace(s.FirstName) == "" || strings.TrimSpace(s.LastName) == "" {
		return 0, validationf("first and last name are required")
	}
	if s.RoleID == 0 {
		return 0, validationf("role is required")
	}
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return 0, storage("create staff", err)
	}
	return s.ID, nil
}

func (r *staffRepository) GetByID(ctx context.Context, id uint) (*models.Staff, error) {
	var s models.Staff
	if err := r.db.WithContext(ctx).Preload("Role").First(&s, "id = ?", id).Error; err != nil {
		return nil, translate("get staff", err)
	}
	return &s, nil
}

func (r *staffRepository) GetAll(ctx context.Context) ([]models.Staff, error) {
	var out []models.Staff
	if err := r.db.WithContext(ctx).Preload("Role").Order("id ASC").Find(&out).Error; err != nil {
		return nil, storage("list staff", err)
	}
	return out, nil
}

// Update replaces the full record by id.
func (r *staffRepository) Update(ctx context.Context, s *models.Staff) error {
	res := r.db.WithContext(ctx).Model(&models.Staff{}).Where("id = ?", s.ID).
		Select("first_name", "last_name", "role_id", "department", "contact", "email").
		Updates(s)
	if res.Error != nil {
		return storage("update staff", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *staffRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Staff{}, "id = ?", id)
	if res.Error != nil {
		return storage("delete staff", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Search matches a case-insensitive substring against first name, last name,
// role name and department.
func (r *staffRepository) Search(ctx context.Context, term string) ([]models.Staff, error) {
	p := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
	var out []models.Staff
	err := r.db.WithContext(ctx).
		Joins("JOIN roles ON roles.id = staff.role_id").
		Where("LOWER(staff.first_name) LIKE ? OR LOWER(staff.last_name) LIKE ? OR LOWER(roles.name) LIKE ? OR LOWER(staff.department) LIKE ?",
			p, p, p, p).
		Order("staff.id ASC").
		Preload("Role").
		Find(&out).Error
	if err != nil {
		return nil, storage("search staff", err)
	}
	return out, nil
}

func (r *staffRepository) GetByUsername(ctx context.Context, username string) (*models.Staff, error) {
	var s models.Staff
	err := r.db.WithContext(ctx).
		Joins("JOIN users ON users.staff_id = staff.id").
		Where("users.username = ?", username).
		Preload("Role").
		First(&s).Error
	if err != nil {
		return nil, translate("get staff by username", err)
	}
	return &s, nil
}

func (r *staffRepository) CountByRole(ctx context.Context, roleName string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Staff{}).
		Joins("JOIN roles ON roles.id = staff.role_id").
		Where("roles.name = ?", roleName).
		Count(&n).Error
	if err != nil {
		return 0, storage("count staff by role", err)
	}
	return n, nil
}
