package repository

import (
	"testing"
	"time"

	"clinic-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestFilterTextWrapsAndLowercases(t *testing.T) {
	f := new(Filter).Text("name", "  Aspirin ")

	require.Len(t, f.clauses, 1)
	assert.Equal(t, "LOWER(name) LIKE ?", f.clauses[0].cond)
	assert.Equal(t, "%aspirin%", f.clauses[0].arg)
}

func TestFilterSkipsEmptyValues(t *testing.T) {
	f := new(Filter).
		Text("name", "   ").
		Int("quantity", "").
		Date("expiry_date", "\t")

	assert.True(t, f.Empty())
}

func TestFilterSkipsUnparsableNumericAndDate(t *testing.T) {
	// Malformed numeric/date input drops the filter instead of erroring.
	f := new(Filter).
		Int("quantity", "lots").
		Date("expiry_date", "next week").
		Int("id", "12")

	require.Len(t, f.clauses, 1)
	assert.Equal(t, "id = ?", f.clauses[0].cond)
	assert.Equal(t, int64(12), f.clauses[0].arg)
}

func TestFilterDateParsesExactDay(t *testing.T) {
	f := new(Filter).Date("expiry_date", "2026-03-01")

	require.Len(t, f.clauses, 1)
	want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, want, f.clauses[0].arg)
}

func TestFilterApplyCombinesConjunctively(t *testing.T) {
	db := newTestDB(t)

	f := new(Filter).
		Text("name", "gauze").
		Int("quantity", "5")

	stmt := f.Apply(db.Session(&gorm.Session{DryRun: true}).Model(&models.Stock{})).Find(&[]models.Stock{}).Statement
	sql := stmt.SQL.String()

	assert.Contains(t, sql, "LOWER(name) LIKE ?")
	assert.Contains(t, sql, "quantity = ?")
	assert.Contains(t, sql, " AND ")
	assert.Equal(t, []interface{}{"%gauze%", int64(5)}, stmt.Vars)
}
