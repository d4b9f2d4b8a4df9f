package repository

import (
	"context"
	"strings"
	"time"

	"clinic-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockFilter carries the optional advanced-search fields as raw form input.
// Numeric and date fields that fail to parse are skipped, not rejected.
type StockFilter struct {
	ID         string
	Name       string
	Category   string
	Quantity   string
	ExpiryDate string
	Status     string
}

type StockRepository interface {
	Create(ctx context.Context, s *models.Stock) (uint, error)
	GetByID(ctx context.Context, id uint) (*models.Stock, error)
	GetAll(ctx context.Context) ([]models.Stock, error)
	Update(ctx context.Context, s *models.Stock) error
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, term string) ([]models.Stock, error)
	AdvancedSearch(ctx context.Context, f StockFilter) ([]models.Stock, error)
	GetLowStock(ctx context.Context, threshold int) ([]models.Stock, error)
	GetExpired(ctx context.Context, asOf time.Time) ([]models.Stock, error)
	TotalValue(ctx context.Context) (decimal.Decimal, error)
}

type stockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) StockRepository {
	return &stockRepository{db: db}
}

func (r *stockRepository) Create(ctx context.Context, s *models.Stock) (uint, error) {
	if strings.TrimSpace(s.Name) == "" {
		return 0, validationf("item name is required")
	}
	if s.Quantity < 0 {
		return 0, validationf("quantity cannot be negative")
	}
	if s.UnitPrice.IsNegative() {
		return 0, validationf("unit price cannot be negative")
	}
	if s.Status == "" {
		s.Status = "Available"
	}
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return 0, storage("create stock item", err)
	}
	return s.ID, nil
}

func (r *stockRepository) GetByID(ctx context.Context, id uint) (*models.Stock, error) {
	var s models.Stock
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, translate("get stock item", err)
	}
	return &s, nil
}

func (r *stockRepository) GetAll(ctx context.Context) ([]models.Stock, error) {
	var out []models.Stock
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, storage("list stock", err)
	}
	return out, nil
}

func (r *stockRepository) Update(ctx context.Context, s *models.Stock) error {
	if s.Quantity < 0 {
		return validationf("quantity cannot be negative")
	}
	res := r.db.WithContext(ctx).Model(&models.Stock{}).Where("id = ?", s.ID).
		Select("name", "category", "quantity", "unit_price", "expiry_date", "status").
		Updates(s)
	if res.Error != nil {
		return storage("update stock item", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *stockRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Stock{}, "id = ?", id)
	if res.Error != nil {
		return storage("delete stock item", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *stockRepository) Search(ctx context.Context, term string) ([]models.Stock, error) {
	p := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
	var out []models.Stock
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(category) LIKE ? OR LOWER(status) LIKE ?", p, p, p).
		Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, storage("search stock", err)
	}
	return out, nil
}

func (r *stockRepository) AdvancedSearch(ctx context.Context, f StockFilter) ([]models.Stock, error) {
	filter := new(Filter).
		Int("id", f.ID).
		Text("name", f.Name).
		Text("category", f.Category).
		Int("quantity", f.Quantity).
		Date("expiry_date", f.ExpiryDate).
		Text("status", f.Status)

	var out []models.Stock
	q := filter.Apply(r.db.WithContext(ctx).Model(&models.Stock{}))
	if err := q.Order("id ASC").Find(&out).Error; err != nil {
		return nil, storage("search stock", err)
	}
	return out, nil
}

// GetLowStock lists items whose quantity is at or below threshold.
func (r *stockRepository) GetLowStock(ctx context.Context, threshold int) ([]models.Stock, error) {
	var out []models.Stock
	err := r.db.WithContext(ctx).Where("quantity <= ?", threshold).
		Order("id ASC").Find(&out).Error
	if err != nil {
		return nil, storage("list low stock", err)
	}
	return out, nil
}

func (r *stockRepository) GetExpired(ctx context.Context, asOf time.Time) ([]models.Stock, error) {
	var out []models.Stock
	err := r.db.WithContext(ctx).
		Where("expiry_date IS NOT NULL AND expiry_date < ?", asOf).
		Order("id ASC").Find(&out).Error
	if err != nil {
		return nil, storage("list expired stock", err)
	}
	return out, nil
}

// TotalValue sums quantity * unit price over the whole table.
func (r *stockRepository) TotalValue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&models.Stock{}).
		Select("SUM(quantity * unit_price)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, storage("sum stock value", err)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
