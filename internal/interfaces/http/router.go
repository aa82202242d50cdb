package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/jhoicas/pos-inventario-api/internal/application/audit"
	"github.com/jhoicas/pos-inventario-api/internal/application/auth"
	"github.com/jhoicas/pos-inventario-api/internal/application/dto"
	"github.com/jhoicas/pos-inventario-api/internal/application/inventory"
	"github.com/jhoicas/pos-inventario-api/internal/application/sales"
	"github.com/jhoicas/pos-inventario-api/internal/application/usecase"
	"github.com/jhoicas/pos-inventario-api/internal/domain/entity"
	"github.com/jhoicas/pos-inventario-api/pkg/config"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ItemUC      *inventory.ItemUseCase
	CategoryUC  *usecase.CategoryUseCase
	SaleUC      *sales.SaleUseCase
	AlertUC     *usecase.AlertUseCase
	UserUC      *usecase.UserUseCase
	DashboardUC *usecase.DashboardUseCase
	AuditQuery  *audit.Query
	Recorder    *audit.Recorder
	JWTSecret   string
	Rate        config.RateLimitConfig
}

// Router registra las rutas de la API bajo /api/v1.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api/v1")

	// Limiter solo para login: frena fuerza bruta por IP.
	loginLimiter := limiter.New(limiter.Config{
		Max:        deps.Rate.LoginMax,
		Expiration: time.Duration(deps.Rate.LoginWindowSecs) * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code:    "RATE_LIMITED",
				Message: "demasiados intentos, intenta más tarde",
			})
		},
	})

	// Auth (público salvo las rutas de sesión)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.Recorder)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", loginLimiter, authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Post("/forgot-password", loginLimiter, authHandler.ForgotPassword)
	authGroup.Post("/reset-password", authHandler.ResetPassword)
	authGroup.Post("/logout", AuthMiddleware(deps.JWTSecret), authHandler.Logout)
	authGroup.Post("/logout-all", AuthMiddleware(deps.JWTSecret), authHandler.LogoutAll)
	authGroup.Post("/change-password", AuthMiddleware(deps.JWTSecret), authHandler.ChangePassword)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), authHandler.Me)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin)
	staffOrAdmin := RequireRole(entity.RoleAdmin, entity.RoleStaff)
	canReadAudit := RequireRole(entity.RoleAdmin, entity.RoleAuditor)

	// Users: el perfil propio es abierto; la administración es solo admin.
	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC, deps.Recorder)
	users.Put("/me", userHandler.UpdateProfile)
	users.Get("/stats", adminOnly, userHandler.Stats)
	users.Get("/", adminOnly, userHandler.List)
	users.Get("/:id", adminOnly, userHandler.GetByID)
	users.Put("/:id", adminOnly, userHandler.Update)
	users.Put("/:id/role", adminOnly, userHandler.ChangeRole)
	users.Delete("/:id", adminOnly, userHandler.Deactivate)

	// Categories
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC, deps.Recorder)
	categories.Post("/", staffOrAdmin, categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Get("/stats", categoryHandler.Stats)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", staffOrAdmin, categoryHandler.Update)
	categories.Delete("/:id", adminOnly, categoryHandler.Delete)

	// Items
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC, deps.Recorder)
	items.Post("/", staffOrAdmin, itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/low-stock", itemHandler.LowStock)
	items.Get("/search", itemHandler.Search)
	items.Get("/stats", itemHandler.Stats)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", staffOrAdmin, itemHandler.Update)
	items.Delete("/:id", adminOnly, itemHandler.Delete)
	items.Post("/:id/restock", staffOrAdmin, itemHandler.Restock)
	items.Get("/:id/restock-history", itemHandler.RestockHistory)

	// Sales
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC, deps.Recorder)
	salesGroup.Post("/", staffOrAdmin, saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/stats", saleHandler.Stats)
	salesGroup.Get("/top", saleHandler.TopSelling)
	salesGroup.Get("/daily", saleHandler.DailyReport)
	salesGroup.Get("/monthly", saleHandler.MonthlyReport)
	salesGroup.Get("/number/:number", saleHandler.GetByNumber)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)
	salesGroup.Post("/:id/payment", staffOrAdmin, saleHandler.RecordPayment)
	salesGroup.Post("/:id/cancel", staffOrAdmin, saleHandler.Cancel)

	// Alerts
	alerts := protected.Group("/alerts")
	alertHandler := NewAlertHandler(deps.AlertUC, deps.Recorder)
	alerts.Post("/", staffOrAdmin, alertHandler.Create)
	alerts.Get("/", alertHandler.List)
	alerts.Get("/stats", alertHandler.Stats)
	alerts.Post("/read", alertHandler.MarkReadBatch)
	alerts.Post("/read-all", alertHandler.MarkAllRead)
	alerts.Post("/cleanup", adminOnly, alertHandler.Cleanup)
	alerts.Get("/:id", alertHandler.GetByID)
	alerts.Post("/:id/read", alertHandler.MarkRead)
	alerts.Post("/:id/resolve", staffOrAdmin, alertHandler.Resolve)
	alerts.Delete("/:id", adminOnly, alertHandler.Delete)

	// Dashboard
	dashboard := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.AuditQuery)
	dashboard.Get("/overview", dashboardHandler.Overview)
	dashboard.Get("/sales", dashboardHandler.SalesAnalytics)
	dashboard.Get("/inventory", dashboardHandler.InventoryAnalytics)
	dashboard.Get("/activity", dashboardHandler.RecentActivity)

	// Audit (solo lectura, admin y auditor)
	auditGroup := protected.Group("/audit", canReadAudit)
	auditHandler := NewAuditHandler(deps.AuditQuery)
	auditGroup.Get("/", auditHandler.List)
	auditGroup.Get("/:id", auditHandler.GetByID)
}
