package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/soltixdb/rainflow/internal/config"
	"github.com/soltixdb/rainflow/internal/handlers"
	"github.com/soltixdb/rainflow/internal/logging"
	"github.com/soltixdb/rainflow/internal/metrics"
	"github.com/soltixdb/rainflow/internal/middleware"
	"github.com/soltixdb/rainflow/internal/services"
)

// Setup configures all routes and middlewares. m may be nil when metrics
// are disabled.
func Setup(app *fiber.App, logger *logging.Logger, m *metrics.Metrics, cfg config.Config) (*handlers.Handler, error) {
	defaults, err := cfg.Counting.CountConfig()
	if err != nil {
		return nil, err
	}

	countingService := services.NewCountingService(logger, m, defaults, cfg.Server.MaxSeriesLength)
	h := handlers.New(logger, countingService)

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-API-Key,X-Request-ID",
	}))
	app.Use(logging.FiberMiddlewareWithConfig(logger, logging.DefaultMiddlewareConfig()))

	// Health check and metrics (no auth required)
	app.Get("/health", h.Health)
	if m != nil && cfg.Metrics.Enabled {
		app.Get(cfg.Metrics.Path, m.Handler())
	}

	// API v1 routes (protected by API key)
	v1 := app.Group("/v1", middleware.APIKeyAuth(logger, cfg.Auth))
	v1.Post("/reversals", h.Reversals)
	v1.Post("/cycles", h.Cycles)
	v1.Post("/counts", h.Counts)

	// 404 handler
	app.Use(h.NotFound)

	return h, nil
}

// New creates a new Fiber app with configuration
func New(logger *logging.Logger, m *metrics.Metrics, cfg config.Config) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		AppName:               "Rainflow",
		DisableStartupMessage: true,
		BodyLimit:             cfg.Server.BodyLimit,
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	if _, err := Setup(app, logger, m, cfg); err != nil {
		return nil, err
	}
	return app, nil
}
