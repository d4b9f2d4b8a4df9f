package repository

import (
	"context"
	"testing"
	"time"

	"clinic-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStock(t *testing.T, repo StockRepository, items ...models.Stock) []uint {
	t.Helper()

	ids := make([]uint, 0, len(items))
	for i := range items {
		id, err := repo.Create(context.Background(), &items[i])
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func TestStockCreateThenGet(t *testing.T) {
	repo := NewStockRepository(newTestDB(t))
	ctx := context.Background()

	expiry := time.Date(2027, 6, 30, 0, 0, 0, 0, time.UTC)
	item := models.Stock{
		Name:       "Paracetamol 500mg",
		Category:   "Analgesic",
		Quantity:   120,
		UnitPrice:  decimal.RequireFromString("3.75"),
		ExpiryDate: &expiry,
		Status:     "Available",
	}

	id, err := repo.Create(ctx, &item)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Paracetamol 500mg", got.Name)
	assert.Equal(t, "Analgesic", got.Category)
	assert.Equal(t, 120, got.Quantity)
	assert.True(t, got.UnitPrice.Equal(decimal.RequireFromString("3.75")), "unit price %s", got.UnitPrice)
	require.NotNil(t, got.ExpiryDate)
	assert.True(t, got.ExpiryDate.Equal(expiry))
	assert.Equal(t, "Available", got.Status)
}

func TestStockRejectsNegativeQuantity(t *testing.T) {
	repo := NewStockRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.Stock{Name: "Gauze", Quantity: -1, UnitPrice: decimal.New(1, 0)})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	id, err := repo.Create(ctx, &models.Stock{Name: "Gauze", Quantity: 3, UnitPrice: decimal.New(1, 0)})
	require.NoError(t, err)

	err = repo.Update(ctx, &models.Stock{ID: id, Name: "Gauze", Quantity: -5, UnitPrice: decimal.New(1, 0)})
	require.ErrorAs(t, err, &ve)
}

func TestStockLowStockThreshold(t *testing.T) {
	repo := NewStockRepository(newTestDB(t))
	ctx := context.Background()

	ids := seedStock(t, repo,
		models.Stock{Name: "Syringes", Quantity: 5, UnitPrice: decimal.New(2, 0)},
		models.Stock{Name: "Masks", Quantity: 50, UnitPrice: decimal.New(1, 0)},
	)

	low, err := repo.GetLowStock(ctx, 10)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, ids[0], low[0].ID)

	low, err = repo.GetLowStock(ctx, 4)
	require.NoError(t, err)
	assert.Empty(t, low)
}

func TestStockAdvancedSearchAllEmptyEqualsGetAll(t *testing.T) {
	repo := NewStockRepository(newTestDB(t))
	ctx := context.Background()

	seedStock(t, repo,
		models.Stock{Name: "Bandages", Quantity: 10, UnitPrice: decimal.New(4, 0)},
		models.Stock{Name: "Thermometers", Quantity: 7, UnitPrice: decimal.New(12, 0)},
		models.Stock{Name: "Gloves", Quantity: 200, UnitPrice: decimal.New(1, 0)},
	)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)

	searched, err := repo.AdvancedSearch(ctx, StockFilter{})
	require.NoError(t, err)

	require.Len(t, searched, len(all))
	for i := range all {
		assert.Equal(t, all[i].ID, searched[i].ID)
	}
}

func TestStockAdvancedSearchCombinesFilters(t *testing.T) {
	repo := NewStockRepository(newTestDB(t))
	ctx := context.Background()

	seedStock(t, repo,
		models.Stock{Name: "Ibuprofen 200mg", Category: "Analgesic", Quantity: 30, UnitPrice: decimal.New(5, 0)},
		models.Stock{Name: "Ibuprofen 400mg", Category: "Analgesic", Quantity: 12, UnitPrice: decimal.New(8, 0)},
		models.Stock{Name: "Amoxicillin", Category: "Antibiotic", Quantity: 30, UnitPrice: decimal.New(9, 0)},
	)

	out, err := repo.AdvancedSearch(ctx, StockFilter{Name: "ibuprofen", Quantity: "30"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Ibuprofen 200mg", out[0].Name)
}

func TestStockAdvancedSearchSkipsUnparsableQuantity(t *testing.T) {
	repo := NewStockRepository(newTestDB(t))
	ctx := context.Background()

	seedStock(t, repo,
		models.Stock{Name: "Ibuprofen 200mg", Category: "Analgesic", Quantity: 30, UnitPrice: decimal.New(5, 0)},
		models.Stock{Name: "Ibuprofen 400mg", Category: "Analgesic", Quantity: 12, UnitPrice: decimal.New(8, 0)},
	)

	// "plenty" does not parse, so only the name filter applies.
	out, err := repo.AdvancedSearch(ctx, StockFilter{Name: "ibuprofen", Quantity: "plenty"})
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestStockExpiredScan(t *testing.T) {
	repo := NewStockRepository(newTestDB(t))
	ctx := context.Background()

	past := time.Now().AddDate(0, -1, 0)
	future := time.Now().AddDate(1, 0, 0)
	seedStock(t, repo,
		models.Stock{Name: "Old insulin", Quantity: 2, UnitPrice: decimal.New(40, 0), ExpiryDate: &past},
		models.Stock{Name: "Fresh insulin", Quantity: 6, UnitPrice: decimal.New(40, 0), ExpiryDate: &future},
		models.Stock{Name: "Scalpels", Quantity: 9, UnitPrice: decimal.New(3, 0)},
	)

	expired, err := repo.GetExpired(ctx, time.Now())
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, "Old insulin", expired[0].Name)
}

func TestStockTotalValue(t *testing.T) {
	repo := NewStockRepository(newTestDB(t))
	ctx := context.Background()

	total, err := repo.TotalValue(ctx)
	require.NoError(t, err)
	assert.True(t, total.IsZero())

	seedStock(t, repo,
		models.Stock{Name: "Gloves", Quantity: 10, UnitPrice: decimal.RequireFromString("1.50")},
		models.Stock{Name: "Masks", Quantity: 4, UnitPrice: decimal.RequireFromString("2.25")},
	)

	total, err = repo.TotalValue(ctx)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("24")), "total %s", total)
}
