package auth

import (
	"errors"
	"strings"

	"clinic-backend/internal/config"
	"clinic-backend/internal/models"
	"clinic-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type RegisterAdminRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Username  string `json:"username" validate:"required,min=3"`
	Password  string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

// RegisterAdminHandler bootstraps the first Admin staff member and its login
// account. Refused once any admin account exists.
func RegisterAdminHandler(roles repository.RoleRepository, staffAccounts *repository.StaffAccountService, staff repository.StaffRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterAdminRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		body.Username = strings.TrimSpace(strings.ToLower(body.Username))
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ctx := c.UserContext()

		n, err := staff.CountByRole(ctx, string(models.RoleAdmin))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not check existing admins")
		}
		if n > 0 {
			return fiber.NewError(fiber.StatusForbidden, "an admin account already exists")
		}

		role, err := roles.GetByName(ctx, string(models.RoleAdmin))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "admin role missing")
		}

		member := models.Staff{
			FirstName:  body.FirstName,
			LastName:   body.LastName,
			RoleID:     role.ID,
			Department: "Administration",
			Email:      body.Email,
		}
		id, err := staffAccounts.Create(ctx, &member, body.Username, body.Password)
		if err != nil {
			var ve *repository.ValidationError
			if errors.As(err, &ve) {
				return fiber.NewError(fiber.StatusBadRequest, ve.Msg)
			}
			return fiber.NewError(fiber.StatusInternalServerError, "could not create admin")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"staff_id": id,
			"username": body.Username,
			"role":     models.RoleAdmin,
		})
	}
}

// LoginHandler validates the username/password/role triple through the
// gateway and issues a JWT on success.
func LoginHandler(cfg *config.Config, gateway *Gateway, accounts repository.AccountRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		body.Username = strings.TrimSpace(strings.ToLower(body.Username))
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ctx := c.UserContext()

		ok, err := gateway.Validate(ctx, body.Username, body.Password, body.Role)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "login check failed")
		}
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid username, password or role")
		}

		account, err := accounts.GetByUsername(ctx, body.Username)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not load account")
		}

		token, err := GenerateToken(cfg.JWTSecret, account)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not issue token")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user": fiber.Map{
				"id":       account.ID,
				"username": account.Username,
				"role":     account.Role.Name,
				"staff_id": account.StaffID,
			},
		})
	}
}

// MeHandler returns the identity carried by the verified token.
func MeHandler(staff repository.StaffRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		staffIDVal := c.Locals(CtxStaffIDKey)
		staffID, ok := staffIDVal.(uint)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "missing identity")
		}

		member, err := staff.GetByID(c.UserContext(), staffID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not load staff record")
		}

		return c.JSON(fiber.Map{
			"staff_id":   member.ID,
			"first_name": member.FirstName,
			"last_name":  member.LastName,
			"role":       member.Role.Name,
			"department": member.Department,
			"username":   c.Locals(CtxUsernameKey),
		})
	}
}
