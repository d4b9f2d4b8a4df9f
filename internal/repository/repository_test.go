package repository

import (
	"context"
	"testing"

	"clinic-backend/internal/database"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return db
}

func roleID(t *testing.T, db *gorm.DB, name string) uint {
	t.Helper()

	role, err := NewRoleRepository(db).GetByName(context.Background(), name)
	require.NoError(t, err)
	return role.ID
}
