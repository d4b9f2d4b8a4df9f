package repository

import (
	"context"
	"strings"

	"clinic-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BillingRepository interface {
	Create(ctx context.Context, b *models.Billing) (uint, error)
	GetByID(ctx context.Context, id uint) (*models.Billing, error)
	GetAll(ctx context.Context) ([]models.Billing, error)
	Update(ctx context.Context, b *models.Billing) error
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, term string) ([]models.Billing, error)
	GetByPatient(ctx context.Context, patientID string) ([]models.Billing, error)
	GetByStatus(ctx context.Context, status string) ([]models.Billing, error)
	TotalRevenue(ctx context.Context) (decimal.Decimal, error)
	TotalOutstanding(ctx context.Context) (decimal.Decimal, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
}

type billingRepository struct {
	db *gorm.DB
}

func NewBillingRepository(db *gorm.DB) BillingRepository {
	return &billingRepository{db: db}
}

// Create inserts one billing row. The patient reference is enforced by the
// foreign key; a missing patient surfaces as a StorageError.
func (r *billingRepository) Create(ctx context.Context, b *models.Billing) (uint, error) {
	if strings.TrimSpace(b.PatientID) == "" {
		return 0, validationf("patient is required")
	}
	if b.Amount.IsNegative() {
		return 0, validationf("amount cannot be negative")
	}
	if b.PaymentStatus == "" {
		b.PaymentStatus = models.PaymentStatusPending
	}
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		return 0, storage("create billing record", err)
	}
	return b.ID, nil
}

func (r *billingRepository) GetByID(ctx context.Context, id uint) (*models.Billing, error) {
	var b models.Billing
	if err := r.db.WithContext(ctx).Preload("Patient").First(&b, "id = ?", id).Error; err != nil {
		return nil, translate("get billing record", err)
	}
	return &b, nil
}

func (r *billingRepository) GetAll(ctx context.Context) ([]models.Billing, error) {
	var out []models.Billing
	if err := r.db.WithContext(ctx).Preload("Patient").Order("id ASC").Find(&out).Error; err != nil {
		return nil, storage("list billing records", err)
	}
	return out, nil
}

func (r *billingRepository) Update(ctx context.Context, b *models.Billing) error {
	res := r.db.WithContext(ctx).Model(&models.Billing{}).Where("id = ?", b.ID).
		Select("patient_id", "appointment_id", "amount", "payment_status",
			"bill_date", "due_date", "description", "notes").
		Updates(b)
	if res.Error != nil {
		return storage("update billing record", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *billingRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Billing{}, "id = ?", id)
	if res.Error != nil {
		return storage("delete billing record", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Search matches payment status, patient id and description.
func (r *billingRepository) Search(ctx context.Context, term string) ([]models.Billing, error) {
	p := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
	var out []models.Billing
	err := r.db.WithContext(ctx).
		Where("LOWER(payment_status) LIKE ? OR LOWER(patient_id) LIKE ? OR LOWER(description) LIKE ?", p, p, p).
		Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, storage("search billing records", err)
	}
	return out, nil
}

func (r *billingRepository) GetByPatient(ctx context.Context, patientID string) ([]models.Billing, error) {
	var out []models.Billing
	err := r.db.WithContext(ctx).Where("patient_id = ?", patientID).
		Order("id ASC").Find(&out).Error
	if err != nil {
		return nil, storage("list billing by patient", err)
	}
	return out, nil
}

func (r *billingRepository) GetByStatus(ctx context.Context, status string) ([]models.Billing, error) {
	var out []models.Billing
	err := r.db.WithContext(ctx).Where("payment_status = ?", status).
		Order("id ASC").Find(&out).Error
	if err != nil {
		return nil, storage("list billing by status", err)
	}
	return out, nil
}

func (r *billingRepository) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	return r.sumAmount(ctx, "payment_status = ?", models.PaymentStatusPaid)
}

func (r *billingRepository) TotalOutstanding(ctx context.Context) (decimal.Decimal, error) {
	return r.sumAmount(ctx, "payment_status <> ?", models.PaymentStatusPaid)
}

func (r *billingRepository) sumAmount(ctx context.Context, cond string, arg any) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&models.Billing{}).
		Select("SUM(amount)").
		Where(cond, arg).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, storage("sum billing amounts", err)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *billingRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Billing{}).
		Where("payment_status = ?", status).
		Count(&n).Error
	if err != nil {
		return 0, storage("count billing by status", err)
	}
	return n, nil
}
