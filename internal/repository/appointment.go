package repository

import (
	"context"
	"strings"

	"clinic-backend/internal/models"

	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(ctx context.Context, a *models.Appointment) (uint, error)
	GetByID(ctx context.Context, id uint) (*models.Appointment, error)
	GetAll(ctx context.Context) ([]models.Appointment, error)
	Update(ctx context.Context, a *models.Appointment) error
	Delete(ctx context.Context, id uint) error
	GetByPatient(ctx context.Context, patientID string) ([]models.Appointment, error)
}

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, a *models.Appointment) (uint, error) {
	if strings.TrimSpace(a.PatientID) == "" {
		return 0, validationf("patient is required")
	}
	if a.StaffID == 0 {
		return 0, validationf("staff member is required")
	}
	if a.Status == "" {
		a.Status = "Scheduled"
	}
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return 0, storage("create appointment", err)
	}
	return a.ID, nil
}

func (r *appointmentRepository) GetByID(ctx context.Context, id uint) (*models.Appointment, error) {
	var a models.Appointment
	err := r.db.WithContext(ctx).Preload("Patient").Preload("Staff").
		First(&a, "id = ?", id).Error
	if err != nil {
		return nil, translate("get appointment", err)
	}
	return &a, nil
}

func (r *appointmentRepository) GetAll(ctx context.Context) ([]models.Appointment, error) {
	var out []models.Appointment
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, storage("list appointments", err)
	}
	return out, nil
}

func (r *appointmentRepository) Update(ctx context.Context, a *models.Appointment) error {
	res := r.db.WithContext(ctx).Model(&models.Appointment{}).Where("id = ?", a.ID).
		Select("patient_id", "staff_id", "scheduled_at", "status", "notes").
		Updates(a)
	if res.Error != nil {
		return storage("update appointment", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Appointment{}, "id = ?", id)
	if res.Error != nil {
		return storage("delete appointment", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *appointmentRepository) GetByPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	var out []models.Appointment
	err := r.db.WithContext(ctx).Where("patient_id = ?", patientID).
		Order("id ASC").Find(&out).Error
	if err != nil {
		return nil, storage("list appointments by patient", err)
	}
	return out, nil
}
