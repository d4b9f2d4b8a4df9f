package appointments

import (
	"errors"
	"time"

	"clinic-backend/internal/models"
	"clinic-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type AppointmentRequest struct {
	PatientID   string `json:"patient_id" validate:"required"`
	StaffID     uint   `json:"staff_id" validate:"required"`
	ScheduledAt string `json:"scheduled_at" validate:"required"` // RFC 3339
	Status      string `json:"status"`
	Notes       string `json:"notes"`
}

func mapError(err error) error {
	var ve *repository.ValidationError
	switch {
	case errors.As(err, &ve):
		return fiber.NewError(fiber.StatusBadRequest, ve.Msg)
	case errors.Is(err, repository.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "appointment not found")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "storage operation failed")
	}
}

func fromRequest(body *AppointmentRequest) (*models.Appointment, error) {
	at, err := time.Parse(time.RFC3339, body.ScheduledAt)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "scheduled_at must be RFC 3339")
	}
	return &models.Appointment{
		PatientID:   body.PatientID,
		StaffID:     body.StaffID,
		ScheduledAt: at,
		Status:      body.Status,
		Notes:       body.Notes,
	}, nil
}

// POST /api/appointments
func CreateAppointmentHandler(repo repository.AppointmentRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body AppointmentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		a, err := fromRequest(&body)
		if err != nil {
			return err
		}

		id, err := repo.Create(c.UserContext(), a)
		if err != nil {
			return mapError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
	}
}

// GET /api/appointments and GET /api/appointments?patient_id=PAT-...
func ListAppointmentsHandler(repo repository.AppointmentRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		var (
			out []models.Appointment
			err error
		)
		if pid := c.Query("patient_id"); pid != "" {
			out, err = repo.GetByPatient(ctx, pid)
		} else {
			out, err = repo.GetAll(ctx)
		}
		if err != nil {
			return mapError(err)
		}
		return c.JSON(out)
	}
}

// GET /api/appointments/:id
func GetAppointmentHandler(repo repository.AppointmentRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid id")
		}
		a, err := repo.GetByID(c.UserContext(), uint(id))
		if err != nil {
			return mapError(err)
		}
		return c.JSON(a)
	}
}

// PUT /api/appointments/:id
func UpdateAppointmentHandler(repo repository.AppointmentRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid id")
		}

		var body AppointmentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		a, err := fromRequest(&body)
		if err != nil {
			return err
		}
		a.ID = uint(id)

		if err := repo.Update(c.UserContext(), a); err != nil {
			return mapError(err)
		}
		return c.JSON(fiber.Map{"updated": true})
	}
}

// DELETE /api/appointments/:id
func DeleteAppointmentHandler(repo repository.AppointmentRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid id")
		}
		if err := repo.Delete(c.UserContext(), uint(id)); err != nil {
			return mapError(err)
		}
		return c.JSON(fiber.Map{"deleted": true})
	}
}
