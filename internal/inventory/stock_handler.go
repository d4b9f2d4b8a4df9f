package inventory

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

type StockRequest struct {
	Name       string `json:"name" validate:"required"`
	Category   string `json:"category"`
	Quantity   int    `json:"quantity" validate:"gte=0"`
	UnitPrice  string `json:"unit_price" validate:"required"` // decimal text, e.g. "12.50"
	ExpiryDate string `json:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
	Status     string `json:"status"`
}

func mapError(err error) error {
	var ve *repository.ValidationError
	switch {
	case errors.As(err, &ve):
		return fiber.NewError(fiber.StatusBadRequest, ve.Msg)
	case errors.Is(err, repository.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "stock item not found")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "storage operation failed")
	}
}

func actor(c *fiber.Ctx) (uint, string) {
	id, _ := c.Locals(auth.CtxUserIDKey).(uint)
	name, _ := c.Locals(auth.CtxUsernameKey).(string)
	return id, name
}

func fromRequest(body *StockRequest) (*models.Stock, error) {
	price, err := decimal.NewFromString(body.UnitPrice)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "unit_price must be a decimal number")
	}

	s := models.Stock{
		Name:      body.Name,
		Category:  body.Category,
		Quantity:  body.Quantity,
		UnitPrice: price,
		Status:    body.Status,
	}
	if body.ExpiryDate != "" {
		d, err := time.Parse("2006-01-02", body.ExpiryDate)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "expiry_date must be 'YYYY-MM-DD'")
		}
		s.ExpiryDate = &d
	}
	return &s, nil
}

// POST /api/stock
func CreateStockHandler(repo repository.StockRepository, rec *audit.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body StockRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		item, err := fromRequest(&body)
		if err != nil {
			return err
		}

		id, err := repo.Create(c.UserContext(), item)
		if err != nil {
			return mapError(err)
		}

		userID, userName := actor(c)
		_ = rec.Write(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "stock",
			EntityID:    fmt.Sprint(id),
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Stock item created: %s (qty %d)", item.Name, item.Quantity),
			After:       item,
		})

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
	}
}

// GET /api/stock and GET /api/stock?q=term
func ListStockHandler(repo repository.StockRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		var (
			out []models.Stock
			err error
		)
		if term := c.Query("q"); term != "" {
			out, err = repo.Search(ctx, term)
		} else {
			out, err = repo.GetAll(ctx)
		}
		if err != nil {
			return mapError(err)
		}
		return c.JSON(out)
	}
}

// GET /api/stock/search?id=&name=&category=&quantity=&expiry_date=&status=
// Every filter is optional raw form text; unparsable numeric/date input is
// skipped rather than rejected.
func AdvancedSearchHandler(repo repository.StockRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := repository.StockFilter{
			ID:         c.Query("id"),
			Name:       c.Query("name"),
			Category:   c.Query("category"),
			Quantity:   c.Query("quantity"),
			ExpiryDate: c.Query("expiry_date"),
			Status:     c.Query("status"),
		}
		out, err := repo.AdvancedSearch(c.UserContext(), f)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(out)
	}
}

// GET /api/stock/low?threshold=10
func LowStockHandler(repo repository.StockRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		threshold := c.QueryInt("threshold", 10)
		if threshold < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "threshold cannot be negative")
		}
		out, err := repo.GetLowStock(c.UserContext(), threshold)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(out)
	}
}

// GET /api/stock/expired
func ExpiredStockHandler(repo repository.StockRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := repo.GetExpired(c.UserContext(), time.Now())
		if err != nil {
			return mapError(err)
		}
		return c.JSON(out)
	}
}

// GET /api/stock/total-value
func TotalValueHandler(repo repository.StockRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		total, err := repo.TotalValue(c.UserContext())
		if err != nil {
			return mapError(err)
		}
		return c.JSON(fiber.Map{"total_value": total.StringFixed(2)})
	}
}

// GET /api/stock/:id
func GetStockHandler(repo repository.StockRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid id")
		}
		item, err := repo.GetByID(c.UserContext(), uint(id))
		if err != nil {
			return mapError(err)
		}
		return c.JSON(item)
	}
}

// PUT /api/stock/:id
func UpdateStockHandler(repo repository.StockRepository, rec *audit.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid id")
		}

		var body StockRequest
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

		item, err := fromRequest(&body)
		if err != nil {
			return err
		}
		item.ID = uint(id)

		if err := repo.Update(ctx, item); err != nil {
			return mapError(err)
		}

		userID, userName := actor(c)
		_ = rec.Write(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "stock",
			EntityID:    fmt.Sprint(id),
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Stock item updated: %s", item.Name),
			Before:      before,
			After:       item,
		})

		return c.JSON(fiber.Map{"updated": true})
	}
}

// DELETE /api/stock/:id
func DeleteStockHandler(repo repository.StockRepository, rec *audit.Recorder) fiber.Handler {
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
			EntityType:  "stock",
			EntityID:    fmt.Sprint(id),
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Stock item deleted: %s", before.Name),
			Before:      before,
		})

		return c.JSON(fiber.Map{"deleted": true})
	}
}
