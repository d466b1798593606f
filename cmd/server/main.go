package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"inventory-backend/internal/activity"
	"inventory-backend/internal/auth"
	"inventory-backend/internal/config"
	"inventory-backend/internal/dashboard"
	"inventory-backend/internal/database"
	"inventory-backend/internal/inventory"
	"inventory-backend/internal/logger"
	"inventory-backend/internal/models"
	"inventory-backend/internal/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	zl := logger.New(logger.Config{Env: cfg.Env, Level: cfg.LogLevel})
	for _, w := range cfg.Warnings {
		zl.Warn().Msg(w)
	}

	db, err := database.Open(cfg, zl)
	if err != nil {
		zl.Fatal().Err(err).Msg("database")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			zl.Error().Err(err).Msg("database close")
		}
	}()

	app := newApp(cfg, db, zl)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zl.Info().Str("port", cfg.HTTPPort).Msg("server listening")
		return app.Listen(":" + cfg.HTTPPort)
	})
	g.Go(func() error {
		<-gctx.Done()
		zl.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zl.Error().Err(err).Msg("server stopped")
		return
	}
	zl.Info().Msg("server stopped")
}

func newApp(cfg *config.Config, db *gorm.DB, zl zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler:          response.ErrorHandler(zl),
		DisableStartupMessage: !cfg.IsDevelopment(),
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.RequestLogger(zl))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins(),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	enricher := activity.NewEnricher(activity.NewDirectory(db), zl)
	summaries := dashboard.NewService(dashboard.NewStore(db), enricher)

	api := app.Group("/api")

	// Public
	api.Get("/health", func(c *fiber.Ctx) error {
		return response.OK(c, fiber.Map{"status": "ok"})
	})
	api.Post("/auth/register", auth.RegisterHandler(db))
	api.Post("/auth/login", auth.LoginHandler(db, cfg.JWTSecret, cfg.JWTTTL))

	// Protected
	protected := api.Group("", auth.JWTMiddleware(cfg.JWTSecret))
	protected.Get("/auth/me", auth.MeHandler(db))

	protected.Get("/dashboard", dashboard.SummaryHandler(summaries))
	protected.Get("/activity-logs", activity.ListHandler(db, enricher))

	editors := auth.RequireRole(models.RoleAdmin, models.RoleManager)

	protected.Get("/products", inventory.ListProductsHandler(db))
	protected.Get("/products/:id", inventory.GetProductHandler(db))
	protected.Post("/products", editors, inventory.CreateProductHandler(db))
	protected.Put("/products/:id", editors, inventory.UpdateProductHandler(db))
	protected.Delete("/products/:id", editors, inventory.DeleteProductHandler(db))

	protected.Get("/categories", inventory.ListCategoriesHandler(db))
	protected.Post("/categories", editors, inventory.CreateCategoryHandler(db))
	protected.Put("/categories/:id", editors, inventory.UpdateCategoryHandler(db))
	protected.Delete("/categories/:id", editors, inventory.DeleteCategoryHandler(db))

	protected.Get("/warehouses", inventory.ListWarehousesHandler(db))
	protected.Post("/warehouses", auth.RequireRole(models.RoleAdmin), inventory.CreateWarehouseHandler(db))

	return app
}
