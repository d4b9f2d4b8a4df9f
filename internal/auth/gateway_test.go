package auth

import (
	"context"
	"testing"

	"clinic-backend/internal/database"
	"clinic-backend/internal/models"
	"clinic-backend/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupGateway(t *testing.T) (*Gateway, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return NewGateway(repository.NewAccountRepository(db)), db
}

func seedAccount(t *testing.T, db *gorm.DB, username, password, roleName string, status models.AccountStatus) {
	t.Helper()

	ctx := context.Background()
	role, err := repository.NewRoleRepository(db).GetByName(ctx, roleName)
	require.NoError(t, err)

	member := models.Staff{FirstName: "Test", LastName: "User", RoleID: role.ID}
	id, err := repository.NewStaffAccountService(db).Create(ctx, &member, username, password)
	require.NoError(t, err)

	if status != models.StatusActive {
		account, err := repository.NewAccountRepository(db).GetByStaffID(ctx, id)
		require.NoError(t, err)
		account.Status = status
		require.NoError(t, repository.NewAccountRepository(db).Update(ctx, account))
	}
}

func TestGatewayValidateSuccess(t *testing.T) {
	g, db := setupGateway(t)
	seedAccount(t, db, "alee", "s3cret-pw", "Nurse", models.StatusActive)

	ok, err := g.Validate(context.Background(), "alee", "s3cret-pw", "Nurse")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGatewayValidateWrongPassword(t *testing.T) {
	g, db := setupGateway(t)
	seedAccount(t, db, "alee", "s3cret-pw", "Nurse", models.StatusActive)

	ok, err := g.Validate(context.Background(), "alee", "wrong", "Nurse")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGatewayValidateWrongRole(t *testing.T) {
	g, db := setupGateway(t)
	seedAccount(t, db, "alee", "s3cret-pw", "Nurse", models.StatusActive)

	ok, err := g.Validate(context.Background(), "alee", "s3cret-pw", "Doctor")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGatewayValidateInactiveAccount(t *testing.T) {
	g, db := setupGateway(t)
	seedAccount(t, db, "alee", "s3cret-pw", "Nurse", models.StatusInactive)

	ok, err := g.Validate(context.Background(), "alee", "s3cret-pw", "Nurse")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGatewayValidateUnknownUser(t *testing.T) {
	g, _ := setupGateway(t)

	ok, err := g.Validate(context.Background(), "ghost", "whatever", "Nurse")
	require.NoError(t, err, "unknown username is a false result, not an error")
	assert.False(t, ok)
}
