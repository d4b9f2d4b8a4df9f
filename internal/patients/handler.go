package patients

import (
	"errors"
	"fmt"
	"time"

	"clinic-backend/internal/audit"
	"clinic-backend/internal/auth"
	"clinic-backend/internal/models"
	"clinic-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type PatientRequest struct {
	PatientID         string  `json:"patient_id"` // optional on create, minted when absent
	FirstName         string  `json:"first_name" validate:"required"`
	LastName          string  `json:"last_name" validate:"required"`
	DateOfBirth       string  `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender            string  `json:"gender"`
	Mobile            string  `json:"mobile"`
	Address           string  `json:"address"`
	InsuranceProvider *string `json:"insurance_provider"`
	Status            string  `json:"status" validate:"omitempty,oneof=Active Inactive"`
	MedicalHistory    string  `json:"medical_history"`
	Allergies         string  `json:"allergies"`
}

func mapError(err error) error {
	var ve *repository.ValidationError
	switch {
	case errors.As(err, &ve):
		return fiber.NewError(fiber.StatusBadRequest, ve.Msg)
	case errors.Is(err, repository.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "patient not found")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "storage operation failed")
	}
}

func actor(c *fiber.Ctx) (uint, string) {
	id, _ := c.Locals(auth.CtxUserIDKey).(uint)
	name, _ := c.Locals(auth.CtxUsernameKey).(string)
	return id, name
}

func fromRequest(body *PatientRequest) (*models.Patient, error) {
	p := models.Patient{
		PatientID:         body.PatientID,
		FirstName:         body.FirstName,
		LastName:          body.LastName,
		Gender:            body.Gender,
		Mobile:            body.Mobile,
		Address:           body.Address,
		InsuranceProvider: body.InsuranceProvider,
		Status:            body.Status,
		MedicalHistory:    body.MedicalHistory,
		Allergies:         body.Allergies,
	}
	if body.DateOfBirth != "" {
		d, err := time.Parse("2006-01-02", body.DateOfBirth)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "date_of_birth must be 'YYYY-MM-DD'")
		}
		p.DateOfBirth = &d
	}
	return &p, nil
}

// POST /api/patients
func CreatePatientHandler(repo repository.PatientRepository, rec *audit.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body PatientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		p, err := fromRequest(&body)
		if err != nil {
			return err
		}

		id, err := repo.Create(c.UserContext(), p)
		if err != nil {
			return mapError(err)
		}

		userID, userName := actor(c)
		_ = rec.Write(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "patient",
			EntityID:    id,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Patient registered: %s %s", p.FirstName, p.LastName),
			After:       p,
		})

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"patient_id": id})
	}
}

// GET /api/patients, /api/patients?q=term, /api/patients?status=Active
func ListPatientsHandler(repo repository.PatientRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		var (
			out []models.Patient
			err error
		)
		switch {
		case c.Query("q") != "":
			out, err = repo.Search(ctx, c.Query("q"))
		case c.Query("status") != "":
			out, err = repo.GetByStatus(ctx, c.Query("status"))
		default:
			out, err = repo.GetAll(ctx)
		}
		if err != nil {
			return mapError(err)
		}
		return c.JSON(out)
	}
}

// GET /api/patients/search?patient_id=&name=&mobile=
// Each filter is optional; all empty returns the full listing.
func AdvancedSearchHandler(repo repository.PatientRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := repository.PatientFilter{
			PatientID: c.Query("patient_id"),
			Name:      c.Query("name"),
			Mobile:    c.Query("mobile"),
		}
		out, err := repo.AdvancedSearch(c.UserContext(), f)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(out)
	}
}

// GET /api/patients/:id
func GetPatientHandler(repo repository.PatientRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := repo.GetByID(c.UserContext(), c.Params("id"))
		if err != nil {
			return mapError(err)
		}
		return c.JSON(p)
	}
}

// PUT /api/patients/:id
func UpdatePatientHandler(repo repository.PatientRepository, rec *audit.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body PatientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ctx := c.UserContext()

		before, err := repo.GetByID(ctx, c.Params("id"))
		if err != nil {
			return mapError(err)
		}

		p, err := fromRequest(&body)
		if err != nil {
			return err
		}
		p.PatientID = before.PatientID

		if err := repo.Update(ctx, p); err != nil {
			return mapError(err)
		}

		userID, userName := actor(c)
		_ = rec.Write(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "patient",
			EntityID:    p.PatientID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Patient updated: %s %s", p.FirstName, p.LastName),
			Before:      before,
			After:       p,
		})

		return c.JSON(fiber.Map{"updated": true})
	}
}

// DELETE /api/patients/:id
func DeletePatientHandler(repo repository.PatientRepository, rec *audit.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		before, err := repo.GetByID(ctx, c.Params("id"))
		if err != nil {
			return mapError(err)
		}

		if err := repo.Delete(ctx, before.PatientID); err != nil {
			return mapError(err)
		}

		userID, userName := actor(c)
		_ = rec.Write(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "patient",
			EntityID:    before.PatientID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Patient deleted: %s %s", before.FirstName, before.LastName),
			Before:      before,
		})

		return c.JSON(fiber.Map{"deleted": true})
	}
}
