package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/pos-inventario-api/internal/application/audit"
	"github.com/jhoicas/pos-inventario-api/internal/application/auth"
	"github.com/jhoicas/pos-inventario-api/internal/application/inventory"
	"github.com/jhoicas/pos-inventario-api/internal/application/sales"
	"github.com/jhoicas/pos-inventario-api/internal/application/usecase"
	"github.com/jhoicas/pos-inventario-api/internal/infrastructure/email"
	infrapdf "github.com/jhoicas/pos-inventario-api/internal/infrastructure/pdf"
	"github.com/jhoicas/pos-inventario-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/pos-inventario-api/internal/interfaces/http"
	"github.com/jhoicas/pos-inventario-api/pkg/config"
	"github.com/jhoicas/pos-inventario-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	tokenRepo := postgres.NewRefreshTokenRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	alertRepo := postgres.NewAlertRepository(pool)
	auditRepo := postgres.NewAuditLogRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	notifier := email.NewNotifier(cfg.SMTP, log)
	pdfGen := infrapdf.NewMarotoReceiptGenerator(cfg.App.Name)

	recorder := audit.NewRecorder(auditRepo, userRepo, log)
	auditQuery := audit.NewQuery(auditRepo)

	authUC := auth.NewAuthUseCase(userRepo, tokenRepo, notifier, auth.JWTConfig{
		Secret:         cfg.JWT.Secret,
		ExpMinutes:     cfg.JWT.Expiration,
		RefreshExpDays: cfg.JWT.RefreshExpDays,
		Issuer:         cfg.JWT.Issuer,
	}, log)

	engine := inventory.NewAlertEngine(alertRepo, userRepo, notifier, log)
	itemUC := inventory.NewItemUseCase(txRunner, itemRepo, categoryRepo, engine, log)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo, itemRepo)
	saleUC := sales.NewSaleUseCase(saleRepo, itemRepo, userRepo, itemUC, pdfGen, log)
	alertUC := usecase.NewAlertUseCase(alertRepo, log)
	userUC := usecase.NewUserUseCase(userRepo)
	dashboardUC := usecase.NewDashboardUseCase(itemUC, saleUC, alertUC, saleRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    cfg.App.Name,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		pingCtx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "db": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ItemUC:      itemUC,
		CategoryUC:  categoryUC,
		SaleUC:      saleUC,
		AlertUC:     alertUC,
		UserUC:      userUC,
		DashboardUC: dashboardUC,
		AuditQuery:  auditQuery,
		Recorder:    recorder,
		JWTSecret:   cfg.JWT.Secret,
		Rate:        cfg.Rate,
	})

	// Limpieza periódica de refresh tokens vencidos.
	go func() {
		ticker := time.NewTicker(12 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if deleted, err := tokenRepo.DeleteExpired(); err != nil {
				log.Warn().Err(err).Msg("limpieza de refresh tokens")
			} else if deleted > 0 {
				log.Info().Int64("deleted", deleted).Msg("refresh tokens vencidos eliminados")
			}
		}
	}()

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
