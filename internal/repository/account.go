package repository

import (
	"context"

	"clinic-backend/internal/models"

	"gorm.io/gorm"
)

// AccountRepository manages login accounts. Account writes only happen inside
// StaffAccountService transactions; reads serve login and username checks.
type AccountRepository interface {
	Create(ctx context.Context, u *models.User) (uint, error)
	Update(ctx context.Context, u *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByStaffID(ctx context.Context, staffID uint) (*models.User, error)
	DeleteByStaffID(ctx context.Context, staffID uint) error
	UsernameTaken(ctx context.Context, username string, excludeStaffID uint) (bool, error)
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, u *models.User) (uint, error) {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return 0, storage("create account", err)
	}
	return u.ID, nil
}

func (r *accountRepository) Update(ctx context.Context, u *models.User) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", u.ID).
		Select("username", "password_hash", "role_id", "status").
		Updates(u)
	if res.Error != nil {
		return storage("update account", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *accountRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Preload("Role").Where("username = ?", username).First(&u).Error
	if err != nil {
		return nil, translate("get account by username", err)
	}
	return &u, nil
}

func (r *accountRepository) GetByStaffID(ctx context.Context, staffID uint) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Preload("Role").Where("staff_id = ?", staffID).First(&u).Error
	if err != nil {
		return nil, translate("get account by staff id", err)
	}
	return &u, nil
}

func (r *accountRepository) DeleteByStaffID(ctx context.Context, staffID uint) error {
	res := r.db.WithContext(ctx).Where("staff_id = ?", staffID).Delete(&models.User{})
	if res.Error != nil {
		return storage("delete account", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UsernameTaken reports whether another staff member already holds username.
// excludeStaffID lets an update keep its own name.
func (r *accountRepository) UsernameTaken(ctx context.Context, username string, excludeStaffID uint) (bool, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username)
	if excludeStaffID != 0 {
		q = q.Where("staff_id <> ?", excludeStaffID)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, storage("check username", err)
	}
	return n > 0, nil
}
