package main

import (
	"context"
	"log"
	"strings"

	"clinic-backend/internal/appointments"
	"clinic-backend/internal/audit"
	"clinic-backend/internal/auth"
	"clinic-backend/internal/billing"
	"clinic-backend/internal/config"
	"clinic-backend/internal/database"
	"clinic-backend/internal/inventory"
	"clinic-backend/internal/models"
	"clinic-backend/internal/patients"
	"clinic-backend/internal/repository"
	"clinic-backend/internal/staff"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}

	roleRepo := repository.NewRoleRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	stockRepo := repository.NewStockRepository(db)
	billingRepo := repository.NewBillingRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	staffAccounts := repository.NewStaffAccountService(db)
	gateway := auth.NewGateway(accountRepo)
	recorder := audit.NewRecorder(db)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	// Every request carries a deadline so no statement can hang the shared pool.
	app.Use(func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.StatementTimeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	})

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(roleRepo, staffAccounts, staffRepo))
	api.Post("/auth/login", auth.LoginHandler(cfg, gateway, accountRepo))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler(staffRepo))

	// Staff management (admin only)
	adminRoutes := protected.Group("/staff")
	adminRoutes.Use(auth.RequireRole(string(models.RoleAdmin)))
	adminRoutes.Post("", staff.CreateStaffHandler(roleRepo, staffAccounts, recorder))
	adminRoutes.Get("", staff.ListStaffHandler(staffRepo))
	adminRoutes.Get("/by-username/:username", staff.GetStaffByUsernameHandler(staffRepo))
	adminRoutes.Get("/:id", staff.GetStaffHandler(staffRepo))
	adminRoutes.Put("/:id", staff.UpdateStaffHandler(roleRepo, staffRepo, staffAccounts, recorder))
	adminRoutes.Delete("/:id", staff.DeleteStaffHandler(staffRepo, staffAccounts, recorder))

	// Patients
	protected.Post("/patients", patients.CreatePatientHandler(patientRepo, recorder))
	protected.Get("/patients", patients.ListPatientsHandler(patientRepo))
	protected.Get("/patients/search", patients.AdvancedSearchHandler(patientRepo))
	protected.Get("/patients/:id", patients.GetPatientHandler(patientRepo))
	protected.Put("/patients/:id", patients.UpdatePatientHandler(patientRepo, recorder))
	protected.Delete("/patients/:id", patients.DeletePatientHandler(patientRepo, recorder))

	// Stock
	protected.Post("/stock", inventory.CreateStockHandler(stockRepo, recorder))
	protected.Post("/stock/import", inventory.ImportStockHandler(stockRepo))
	protected.Get("/stock", inventory.ListStockHandler(stockRepo))
	protected.Get("/stock/search", inventory.AdvancedSearchHandler(stockRepo))
	protected.Get("/stock/low", inventory.LowStockHandler(stockRepo))
	protected.Get("/stock/expired", inventory.ExpiredStockHandler(stockRepo))
	protected.Get("/stock/total-value", inventory.TotalValueHandler(stockRepo))
	protected.Get("/stock/:id", inventory.GetStockHandler(stockRepo))
	protected.Put("/stock/:id", inventory.UpdateStockHandler(stockRepo, recorder))
	protected.Delete("/stock/:id", inventory.DeleteStockHandler(stockRepo, recorder))

	// Billing
	protected.Post("/billing", billing.CreateBillingHandler(billingRepo, recorder))
	protected.Get("/billing", billing.ListBillingHandler(billingRepo))
	protected.Get("/billing/summary", billing.SummaryHandler(billingRepo))
	protected.Get("/billing/export", billing.ExportBillingHandler(billingRepo))
	protected.Get("/billing/:id", billing.GetBillingHandler(billingRepo))
	protected.Put("/billing/:id", billing.UpdateBillingHandler(billingRepo, recorder))
	protected.Delete("/billing/:id", billing.DeleteBillingHandler(billingRepo, recorder))

	// Appointments
	protected.Post("/appointments", appointments.CreateAppointmentHandler(appointmentRepo))
	protected.Get("/appointments", appointments.ListAppointmentsHandler(appointmentRepo))
	protected.Get("/appointments/:id", appointments.GetAppointmentHandler(appointmentRepo))
	protected.Put("/appointments/:id", appointments.UpdateAppointmentHandler(appointmentRepo))
	protected.Delete("/appointments/:id", appointments.DeleteAppointmentHandler(appointmentRepo))

	// Audit logs (admin only)
	protected.Get("/audit-logs", auth.RequireRole(string(models.RoleAdmin)), audit.ListAuditLogsHandler(db))

	log.Println("Server listening on port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
