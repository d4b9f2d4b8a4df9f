package repository

import (
	"context"
	"strings"

	"clinic-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PatientFilter carries the optional advanced-search fields. Empty string
// means the field was not supplied.
type PatientFilter struct {
	PatientID string
	Name      string
	Mobile    string
}

type PatientRepository interface {
	Create(ctx context.Context, p *models.Patient) (string, error)
	GetByID(ctx context.Context, id string) (*models.Patient, error)
	GetAll(ctx context.Context) ([]models.Patient, error)
	Update(ctx context.Context, p *models.Patient) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, term string) ([]models.Patient, error)
	AdvancedSearch(ctx context.Context, f PatientFilter) ([]models.Patient, error)
	GetByStatus(ctx context.Context, status string) ([]models.Patient, error)
	Count(ctx context.Context) (int64, error)
}

type patientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) PatientRepository {
	return &patientRepository{db: db}
}

// Create inserts a patient. An empty PatientID gets a minted external id.
func (r *patientRepository) Create(ctx context.Context, p *models.Patient) (string, error) {
	if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" {
		return "", validationf("first and last name are required")
	}
	if strings.TrimSpace(p.PatientID) == "" {
		p.PatientID = "PAT-" + uuid.NewString()[:8]
	}
	if p.Status == "" {
		p.Status = "Active"
	}
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return "", storage("create patient", err)
	}
	return p.PatientID, nil
}

func (r *patientRepository) GetByID(ctx context.Context, id string) (*models.Patient, error) {
	var p models.Patient
	if err := r.db.WithContext(ctx).First(&p, "patient_id = ?", id).Error; err != nil {
		return nil, translate("get patient", err)
	}
	return &p, nil
}

func (r *patientRepository) GetAll(ctx context.Context) ([]models.Patient, error) {
	var out []models.Patient
	if err := r.db.WithContext(ctx).Order("patient_id ASC").Find(&out).Error; err != nil {
		return nil, storage("list patients", err)
	}
	return out, nil
}

func (r *patientRepository) Update(ctx context.Context, p *models.Patient) error {
	res := r.db.WithContext(ctx).Model(&models.Patient{}).Where("patient_id = ?", p.PatientID).
		Select("first_name", "last_name", "date_of_birth", "gender", "mobile", "address",
			"insurance_provider", "status", "medical_history", "allergies").
		Updates(p)
	if res.Error != nil {
		return storage("update patient", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *patientRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Patient{}, "patient_id = ?", id)
	if res.Error != nil {
		return storage("delete patient", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Search matches id, name and mobile against one term.
func (r *patientRepository) Search(ctx context.Context, term string) ([]models.Patient, error) {
	p := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
	var out []models.Patient
	err := r.db.WithContext(ctx).
		Where("LOWER(patient_id) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(mobile) LIKE ?",
			p, p, p, p).
		Order("patient_id ASC").
		Find(&out).Error
	if err != nil {
		return nil, storage("search patients", err)
	}
	return out, nil
}

// AdvancedSearch combines the supplied filters conjunctively. All filters
// empty is equivalent to GetAll.
func (r *patientRepository) AdvancedSearch(ctx context.Context, f PatientFilter) ([]models.Patient, error) {
	filter := new(Filter).
		Text("patient_id", f.PatientID).
		Text("first_name || ' ' || last_name", f.Name).
		Text("mobile", f.Mobile)

	var out []models.Patient
	q := filter.Apply(r.db.WithContext(ctx).Model(&models.Patient{}))
	if err := q.Order("patient_id ASC").Find(&out).Error; err != nil {
		return nil, storage("search patients", err)
	}
	return out, nil
}

func (r *patientRepository) GetByStatus(ctx context.Context, status string) ([]models.Patient, error) {
	var out []models.Patient
	err := r.db.WithContext(ctx).Where("status = ?", status).
		Order("patient_id ASC").Find(&out).Error
	if err != nil {
		return nil, storage("list patients by status", err)
	}
	return out, nil
}

func (r *patientRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Patient{}).Count(&n).Error; err != nil {
		return 0, storage("count patients", err)
	}
	return n, nil
}
