package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/squadhub/backend/internal/config"
	"github.com/squadhub/backend/internal/handlers"
	"github.com/squadhub/backend/internal/middleware"
	"github.com/squadhub/backend/internal/models"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	employeeHandler *handlers.EmployeeHandler,
	groupHandler *handlers.GroupHandler,
	importHandler *handlers.ImportHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Login gets a stricter limit: 10 req/min per IP
	api.Post("/login", limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}), authHandler.Login)

	api.Post("/refresh", authHandler.Refresh)
	api.Post("/logout", middleware.JWTProtected(cfg), authHandler.Logout)

	// Admin surface: both access-guard gates apply to every route.
	admin := api.Group("/admin",
		middleware.JWTProtected(cfg),
		middleware.RoleRequired(db, models.RoleAdmin),
	)

	admin.Post("/create-employee", employeeHandler.Create)
	admin.Get("/employees", employeeHandler.List)
	admin.Post("/update-employee/:id", employeeHandler.Update)
	admin.Delete("/delete-employee/:id", employeeHandler.Delete)
	admin.Post("/import-employees", importHandler.ImportEmployees)

	admin.Post("/create-group", groupHandler.Create)
	admin.Get("/groups", groupHandler.List)
	admin.Put("/update-group/:id", groupHandler.Update)
	admin.Delete("/delete-group/:id", groupHandler.Delete)
	admin.Patch("/group-status/:id", groupHandler.SetStatus)
	admin.Put("/groups/:id/members/:userId/task", groupHandler.UpdateTask)
	admin.Post("/import-groups-csv", importHandler.ImportGroups)

	admin.Get("/analytics", groupHandler.Analytics)
}
