package repository

import (
	"context"
	"errors"
	"testing"

	"clinic-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestStaffAccountCreateThenGetByUsername(t *testing.T) {
	db := newTestDB(t)
	svc := NewStaffAccountService(db)
	ctx := context.Background()

	member := models.Staff{
		FirstName:  "Ann",
		LastName:   "Lee",
		RoleID:     roleID(t, db, "Nurse"),
		Department: "ER",
		Contact:    "555-0100",
		Email:      "ann@x.com",
	}

	id, err := svc.Create(ctx, &member, "alee", "pw1")
	require.NoError(t, err)
	assert.Greater(t, id, uint(0))

	got, err := NewStaffRepository(db).GetByUsername(ctx, "alee")
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Ann", got.FirstName)
	assert.Equal(t, "Lee", got.LastName)
	assert.Equal(t, "Nurse", got.Role.Name)
	assert.Equal(t, "ER", got.Department)
	assert.Equal(t, "555-0100", got.Contact)
	assert.Equal(t, "ann@x.com", got.Email)

	account, err := NewAccountRepository(db).GetByUsername(ctx, "alee")
	require.NoError(t, err)
	assert.Equal(t, id, account.StaffID)
	assert.Equal(t, models.StatusActive, account.Status)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("pw1")))
}

func TestStaffAccountCreateDuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	svc := NewStaffAccountService(db)
	staffRepo := NewStaffRepository(db)
	ctx := context.Background()

	first := models.Staff{FirstName: "Ann", LastName: "Lee", RoleID: roleID(t, db, "Nurse")}
	_, err := svc.Create(ctx, &first, "alee", "pw1")
	require.NoError(t, err)

	second := models.Staff{FirstName: "Al", LastName: "Leeds", RoleID: roleID(t, db, "Doctor")}
	_, err = svc.Create(ctx, &second, "alee", "pw2")

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "username exists", ve.Msg)

	all, err := staffRepo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStaffAccountCreateRollsBackOnAccountFailure(t *testing.T) {
	db := newTestDB(t)
	svc := NewStaffAccountService(db)
	ctx := context.Background()

	// Inject a failure on the account insert, after the staff row is in.
	err := db.Callback().Create().Before("gorm:create").Register("fail_account_insert", func(tx *gorm.DB) {
		if tx.Statement.Table == "users" {
			tx.AddError(errors.New("injected constraint violation"))
		}
	})
	require.NoError(t, err)
	defer db.Callback().Create().Remove("fail_account_insert")

	member := models.Staff{FirstName: "Ann", LastName: "Lee", RoleID: roleID(t, db, "Nurse")}
	_, err = svc.Create(ctx, &member, "alee", "pw1")
	require.Error(t, err)

	all, err := NewStaffRepository(db).GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "staff insert must be rolled back with the failed account insert")
}

func TestStaffAccountUpdateKeepsPasswordWhenEmpty(t *testing.T) {
	db := newTestDB(t)
	svc := NewStaffAccountService(db)
	accounts := NewAccountRepository(db)
	ctx := context.Background()

	member := models.Staff{FirstName: "Ann", LastName: "Lee", RoleID: roleID(t, db, "Nurse")}
	id, err := svc.Create(ctx, &member, "alee", "pw1")
	require.NoError(t, err)

	before, err := accounts.GetByStaffID(ctx, id)
	require.NoError(t, err)

	updated := models.Staff{
		ID:         id,
		FirstName:  "Ann",
		LastName:   "Lee-Park",
		RoleID:     roleID(t, db, "Nurse"),
		Department: "ICU",
	}
	require.NoError(t, svc.Update(ctx, &updated, "alee", "", models.StatusActive))

	after, err := accounts.GetByStaffID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, before.PasswordHash, after.PasswordHash, "empty password must leave the stored hash untouched")

	got, err := NewStaffRepository(db).GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Lee-Park", got.LastName)
	assert.Equal(t, "ICU", got.Department)
}

func TestStaffAccountUpdateRejectsTakenUsername(t *testing.T) {
	db := newTestDB(t)
	svc := NewStaffAccountService(db)
	ctx := context.Background()

	a := models.Staff{FirstName: "Ann", LastName: "Lee", RoleID: roleID(t, db, "Nurse")}
	aID, err := svc.Create(ctx, &a, "alee", "pw1")
	require.NoError(t, err)

	b := models.Staff{FirstName: "Bo", LastName: "Kim", RoleID: roleID(t, db, "Doctor")}
	_, err = svc.Create(ctx, &b, "bkim", "pw2")
	require.NoError(t, err)

	a.ID = aID
	err = svc.Update(ctx, &a, "bkim", "", models.StatusActive)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "username exists", ve.Msg)
}

func TestStaffAccountDeleteRemovesBothRows(t *testing.T) {
	db := newTestDB(t)
	svc := NewStaffAccountService(db)
	ctx := context.Background()

	member := models.Staff{FirstName: "Ann", LastName: "Lee", RoleID: roleID(t, db, "Nurse")}
	id, err := svc.Create(ctx, &member, "alee", "pw1")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, id))

	_, err = NewStaffRepository(db).GetByID(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = NewAccountRepository(db).GetByUsername(ctx, "alee")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStaffAccountDeleteMissingAccountRollsBack(t *testing.T) {
	db := newTestDB(t)
	svc := NewStaffAccountService(db)
	ctx := context.Background()

	// A staff row without an account: only reachable by bypassing the
	// service, but delete must still keep the pair atomic.
	orphan := models.Staff{FirstName: "No", LastName: "Account", RoleID: roleID(t, db, "Nurse")}
	id, err := NewStaffRepository(db).Create(ctx, &orphan)
	require.NoError(t, err)

	err = svc.Delete(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := NewStaffRepository(db).GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID, "staff row must survive the rolled-back delete")
}
