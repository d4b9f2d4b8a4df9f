package staff

import (
	"errors"
	"fmt"
	"strings"

	"clinic-backend/internal/audit"
	"clinic-backend/internal/auth"
	"clinic-backend/internal/models"
	"clinic-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type CreateStaffRequest struct {
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	Role       string `json:"role" validate:"required"`
	Department string `json:"department"`
	Contact    string `json:"contact"`
	Email      string `json:"email" validate:"omitempty,email"`
	Username   string `json:"username" validate:"required,min=3"`
	Password   string `json:"password" validate:"required,min=8"`
}

type UpdateStaffRequest struct {
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	Role       string `json:"role" validate:"required"`
	Department string `json:"department"`
	Contact    string `json:"contact"`
	Email      string `json:"email" validate:"omitempty,email"`
	Username   string `json:"username" validate:"required,min=3"`
	Password   string `json:"password"` // empty = keep current password
	Status     string `json:"status" validate:"omitempty,oneof=Active Inactive"`
}

type StaffResponse struct {
	ID         uint   `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Role       string `json:"role"`
	Department string `json:"department"`
	Contact    string `json:"contact"`
	Email      string `json:"email"`
}

func toResponse(s *models.Staff) StaffResponse {
	return StaffResponse{
		ID:         s.ID,
		FirstName:  s.FirstName,
		LastName:   s.LastName,
		Role:       s.Role.Name,
		Department: s.Department,
		Contact:    s.Contact,
		Email:      s.Email,
	}
}

func mapError(err error) error {
	var ve *repository.ValidationError
	switch {
	case errors.As(err, &ve):
		return fiber.NewError(fiber.StatusBadRequest, ve.Msg)
	case errors.Is(err, repository.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "staff member not found")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "storage operation failed")
	}
}

func actor(c *fiber.Ctx) (uint, string) {
	id, _ := c.Locals(auth.CtxUserIDKey).(uint)
	name, _ := c.Locals(auth.CtxUsernameKey).(string)
	return id, name
}

// POST /api/staff
func CreateStaffHandler(roles repository.RoleRepository, svc *repository.StaffAccountService, rec *audit.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateStaffRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		body.Username = strings.TrimSpace(strings.ToLower(body.Username))
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ctx := c.UserContext()

		role, err := roles.GetByName(ctx, body.Role)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "unknown role: "+body.Role)
		}

		member := models.Staff{
			FirstName:  body.FirstName,
			LastName:   body.LastName,
			RoleID:     role.ID,
			Department: body.Department,
			Contact:    body.Contact,
			Email:      body.Email,
		}

		id, err := svc.Create(ctx, &member, body.Username, body.Password)
		if err != nil {
			return mapError(err)
		}

		userID, userName := actor(c)
		_ = rec.Write(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "staff",
			EntityID:    fmt.Sprint(id),
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Staff member created: %s %s (%s)", body.FirstName, body.LastName, body.Role),
			After:       member,
		})

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id, "username": body.Username})
	}
}

// GET /api/staff and GET /api/staff?q=term
func ListStaffHandler(repo repository.StaffRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		var (
			members []models.Staff
			err     error
		)
		if term := c.Query("q"); term != "" {
			members, err = repo.Search(ctx, term)
		} else {
			members, err = repo.GetAll(ctx)
		}
		if err != nil {
			return mapError(err)
		}

		resp := make([]StaffResponse, 0, len(members))
		for i := range members {
			resp = append(resp, toResponse(&members[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/staff/:id
func GetStaffHandler(repo repository.StaffRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid id")
		}

		member, err := repo.GetByID(c.UserContext(), uint(id))
		if err != nil {
			return mapError(err)
		}
		return c.JSON(toResponse(member))
	}
}

// GET /api/staff/by-username/:username
func GetStaffByUsernameHandler(repo repository.StaffRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		member, err := repo.GetByUsername(c.UserContext(), c.Params("username"))
		if err != nil {
			return mapError(err)
		}
		return c.JSON(toResponse(member))
	}
}

// PUT /api/staff/:id
func UpdateStaffHandler(roles repository.RoleRepository, repo repository.StaffRepository, svc *repository.StaffAccountService, rec *audit.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid id")
		}

		var body UpdateStaffRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		body.Username = strings.TrimSpace(strings.ToLower(body.Username))
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ctx := c.UserContext()

		before, err := repo.GetByID(ctx, uint(id))
		if err != nil {
			return mapError(err)
		}

		role, err := roles.GetByName(ctx, body.Role)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "unknown role: "+body.Role)
		}

		member := models.Staff{
			ID:         uint(id),
			FirstName:  body.FirstName,
			LastName:   body.LastName,
			RoleID:     role.ID,
			Department: body.Department,
			Contact:    body.Contact,
			Email:      body.Email,
		}

		if err := svc.Update(ctx, &member, body.Username, body.Password, models.AccountStatus(body.Status)); err != nil {
			return mapError(err)
		}

		userID, userName := actor(c)
		_ = rec.Write(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "staff",
			EntityID:    fmt.Sprint(id),
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Staff member updated: %s %s", body.FirstName, body.LastName),
			Before:      before,
			After:       member,
		})

		return c.JSON(fiber.Map{"updated": true})
	}
}

// DELETE /api/staff/:id
func DeleteStaffHandler(repo repository.StaffRepository, svc *repository.StaffAccountService, rec *audit.Recorder) fiber.Handler {
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

		if err := svc.Delete(ctx, uint(id)); err != nil {
			return mapError(err)
		}

		userID, userName := actor(c)
		_ = rec.Write(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "staff",
			EntityID:    fmt.Sprint(id),
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Staff member deleted: %s %s", before.FirstName, before.LastName),
			Before:      before,
		})

		return c.JSON(fiber.Map{"deleted": true})
	}
}
