package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/soltixdb/statcalc/internal/config"
	"github.com/soltixdb/statcalc/internal/handlers"
	"github.com/soltixdb/statcalc/internal/logging"
	"github.com/soltixdb/statcalc/internal/middleware"
	"github.com/soltixdb/statcalc/internal/queue"
	"github.com/soltixdb/statcalc/internal/services"
)

// Setup configures all routes and middlewares. A nil publisher leaves the
// job routes answering 503.
func Setup(app *fiber.App, logger *logging.Logger, analysis *services.AnalysisService,
	publisher queue.Publisher, cfg config.Config,
) (*handlers.Handler, error) {
	h, err := handlers.New(logger, analysis, publisher, cfg.Worker)
	if err != nil {
		return nil, err
	}

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-API-Key,X-Request-ID",
	}))
	app.Use(logging.FiberMiddleware(logger))

	// No auth required
	app.Get("/health", h.Health)
	app.Get("/version", h.Version)

	authMiddleware := middleware.APIKeyAuth(logger, cfg.Auth.APIKeys, cfg.Auth.Enabled)
	v1 := app.Group("/v1", authMiddleware)

	// Analysis Routes
	v1.Post("/report", h.Report)
	v1.Post("/stats", h.Statistics)
	v1.Post("/moving-average", h.MovingAverage)
	v1.Post("/ema", h.EMA)
	v1.Post("/outliers", h.Outliers)
	v1.Post("/correlation", h.Correlation)
	v1.Post("/percentile", h.Percentile)
	v1.Post("/monthly-totals", h.MonthlyTotals)
	v1.Post("/anomalies", h.Anomalies)
	v1.Post("/forecast", h.Forecast)
	v1.Post("/trend", h.Trend)
	v1.Post("/category-breakdown", h.CategoryBreakdown)
	v1.Post("/spending-summary", h.SpendingSummary)
	v1.Post("/insights", h.Insights)

	// Job Routes
	v1.Post("/jobs", h.SubmitJob)
	v1.Post("/jobs/batch", h.SubmitJobBatch)

	// 404 handler
	app.Use(h.NotFound)

	return h, nil
}

// New creates a new Fiber app with configuration
func New(logger *logging.Logger, analysis *services.AnalysisService,
	publisher queue.Publisher, cfg config.Config,
) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		AppName:               "statcalc",
		DisableStartupMessage: true,
		BodyLimit:             cfg.Server.BodyLimit,
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	if _, err := Setup(app, logger, analysis, publisher, cfg); err != nil {
		return nil, err
	}
	return app, nil
}
