package repository

import (
	"context"
	"strings"

	"clinic-backend/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// StaffAccountService creates, updates and deletes a staff member together
// with its login account as one atomic unit. The schema holds a foreign key
// from users to staff, so the staff row must exist before the account and the
// account must go first on delete.
//
// Each operation runs inside db.Transaction, which commits on a nil return
// and rolls back on error or panic. A caller never observes a staff row
// without its account.
type StaffAccountService struct {
	db *gorm.DB
}

func NewStaffAccountService(db *gorm.DB) *StaffAccountService {
	return &StaffAccountService{db: db}
}

// Create inserts the staff row, then the account referencing its generated id.
// The username check happens up front so an obvious duplicate never opens a
// transaction; the unique index still backstops races inside it.
func (s *StaffAccountService) Create(ctx context.Context, staff *models.Staff, username, password string) (uint, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return 0, validationf("username is required")
	}
	if password == "" {
		return 0, validationf("password is required")
	}

	taken, err := NewAccountRepository(s.db).UsernameTaken(ctx, username, 0)
	if err != nil {
		return 0, err
	}
	if taken {
		return 0, validationf("username exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, storage("hash password", err)
	}

	var staffID uint
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := NewStaffRepository(tx).Create(ctx, staff)
		if err != nil {
			return err
		}
		account := models.User{
			Username:     username,
			PasswordHash: string(hash),
			RoleID:       staff.RoleID,
			Status:       models.StatusActive,
			StaffID:      id,
		}
		if _, err := NewAccountRepository(tx).Create(ctx, &account); err != nil {
			return err
		}
		staffID = id
		return nil
	})
	if err != nil {
		return 0, err
	}
	return staffID, nil
}

// Update replaces the staff row and keeps the account in step. An empty
// newPassword means the stored credential is left untouched; the form never
// redisplays it, so no input must not clear it.
func (s *StaffAccountService) Update(ctx context.Context, staff *models.Staff, username, newPassword string, status models.AccountStatus) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return validationf("username is required")
	}

	account, err := NewAccountRepository(s.db).GetByStaffID(ctx, staff.ID)
	if err != nil {
		return err
	}
	if username != account.Username {
		taken, err := NewAccountRepository(s.db).UsernameTaken(ctx, username, staff.ID)
		if err != nil {
			return err
		}
		if taken {
			return validationf("username exists")
		}
	}

	account.Username = username
	account.RoleID = staff.RoleID
	if status != "" {
		account.Status = status
	}
	if newPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return storage("hash password", err)
		}
		account.PasswordHash = string(hash)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := NewStaffRepository(tx).Update(ctx, staff); err != nil {
			return err
		}
		return NewAccountRepository(tx).Update(ctx, account)
	})
}

// Delete removes the account first (the dependent side of the foreign key),
// then the staff row, in one transaction.
func (s *StaffAccountService) Delete(ctx context.Context, staffID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := NewAccountRepository(tx).DeleteByStaffID(ctx, staffID); err != nil {
			return err
		}
		return NewStaffRepository(tx).Delete(ctx, staffID)
	})
}
