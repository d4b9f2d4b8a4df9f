package billing

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
	"github.com/shopspring/decimal"
)

var validate = validator.New()

type BillingRequest struct {
	PatientID     string `json:"patient_id" validate:"required"`
	AppointmentID *uint  `json:"appointment_id"`
	Amount        string `json:"amount" validate:"required"` // decimal text
	PaymentStatus string `json:"payment_status"`
	BillDate      string `json:"bill_date" validate:"required,datetime=2006-01-02"`
	DueDate       string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Description   string `json:"description"`
	Notes         string `json:"notes"`
}

func mapError(err error) error {
	var ve *repository.ValidationError
	switch {
	case errors.As(err, &ve):
		return fiber.NewError(fiber.StatusBadRequest, ve.Msg)
	case errors.Is(err, repository.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "billing record not found")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "storage operation failed")
	}
}

func actor(c *fiber.Ctx) (uint, string) {
	id, _ := c.Locals(auth.CtxUserIDKey).(uint)
	name, _ := c.Locals(auth.CtxUsernameKey).(string)
	return id, name
}

func fromRequest(body *BillingRequest) (*models.Billing, error) {
	amount, err := decimal.NewFromString(body.Amount)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "amount must be a decimal number")
	}

	billDate, err := time.Parse("2006-01-02", body.BillDate)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "bill_date must be 'YYYY-MM-DD'")
	}

	b := models.Billing{
		PatientID:     body.PatientID,
		AppointmentID: body.AppointmentID,
		Amount:        amount,
		PaymentStatus: body.PaymentStatus,
		BillDate:      billDate,
		Description:   body.Description,
		Notes:         body.Notes,
	}
	if body.DueDate != "" {
		d, err := time.Parse("2006-01-02", body.DueDate)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "due_date must be 'YYYY-MM-DD'")
		}
		b.DueDate = &d
	}
	return &b, nil
}

// POST /api/billing
func CreateBillingHandler(repo repository.BillingRepository, rec *audit.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body BillingRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		b, err := fromRequest(&body)
		if err != nil {
			return err
		}

		id, err := repo.Create(c.UserContext(), b)
		if err != nil {
			return mapError(err)
		}

		userID, userName := actor(c)
		_ = rec.Write(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "billing",
			EntityID:    fmt.Sprint(id),
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Billing record created for patient %s: %s", b.PatientID, b.Amount.StringFixed(2)),
			After:       b,
		})

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
	}
}

// GET /api/billing, /api/billing?q=term, /api/billing?status=Unpaid, /api/billing?patient_id=PAT-...
func ListBillingHandler(repo repository.BillingRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		var (
			out []models.Billing
			err error
		)
		switch {
		case c.Query("q") != "":
			out, err = repo.Search(ctx, c.Query("q"))
		case c.Query("status") != "":
			out, err = repo.GetByStatus(ctx, c.Query("status"))
		case c.Query("patient_id") != "":
			out, err = repo.GetByPatient(ctx, c.Query("patient_id"))
		default:
			out, err = repo.GetAll(ctx)
		}
		if err != nil {
			return mapError(err)
		}
		return c.JSON(out)
	}
}

// GET /api/billing/summary
func SummaryHandler(repo repository.BillingRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		revenue, err := repo.TotalRevenue(ctx)
		if err != nil {
			return mapError(err)
		}
		outstanding, err := repo.TotalOutstanding(ctx)
		if err != nil {
			return mapError(err)
		}
		pending, err := repo.CountByStatus(ctx, models.PaymentStatusPending)
		if err != nil {
			return mapError(err)
		}
		unpaid, err := repo.CountByStatus(ctx, models.PaymentStatusUnpaid)
		if err != nil {
			return mapError(err)
		}

		return c.JSON(fiber.Map{
			"total_revenue":     revenue.StringFixed(2),
			"total_outstanding": outstanding.StringFixed(2),
			"pending_count":     pending,
			"unpaid_count":      unpaid,
		})
	}
}

// GET /api/billing/:id
func GetBillingHandler(repo repository.BillingRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid id")
		}
		b, err := repo.GetByID(c.UserContext(), uint(id))
		if err != nil {
			return mapError(err)
		}
		return c.JSON(b)
	}
}

// PUT /api/billing/:id
func UpdateBillingHandler(repo repository.BillingRepository, rec *audit.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid id")
		}

		var body BillingRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ctx := c.UserContext()

		before, err := repo.GetByID(ctx, uint(id))
		if err != nil {
			return mapError(err)
		}

		b, err := fromRequest(&body)
		if err != nil {
			return err
		}
		b.ID = uint(id)

		if err := repo.Update(ctx, b); err != nil {
			return mapError(err)
		}

		userID, userName := actor(c)
		_ = rec.Write(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "billing",
			EntityID:    fmt.Sprint(id),
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Billing record updated: %s -> %s", before.PaymentStatus, b.PaymentStatus),
			Before:      before,
			After:       b,
		})

		return c.JSON(fiber.Map{"updated": true})
	}
}

// DELETE /api/billing/:id
func DeleteBillingHandler(repo repository.BillingRepository, rec *audit.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid id")
		}

		ctx := c.UserContext()

		before, err := repo.GetByID(ctx, uint(id))
		if err != nil {
			return mapError(err)
		}

		if err := repo.Delete(ctx, uint(id)); err != nil {
			return mapError(err)
		}

		userID, userName := actor(c)
		_ = rec.Write(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "billing",
			EntityID:    fmt.Sprint(id),
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Billing record deleted for patient %s", before.PatientID),
			Before:      before,
		})

		return c.JSON(fiber.Map{"deleted": true})
	}
}
