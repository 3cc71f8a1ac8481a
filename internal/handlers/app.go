package handlers

import (
	"time"

	"labelpulse-api/internal/config"
	"labelpulse-api/internal/logging"
	"labelpulse-api/internal/metrics"
	"labelpulse-api/internal/services"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// Services bundles what the routes depend on.
type Services struct {
	Catalog   *services.CatalogService
	Forecasts *services.ForecastService
	Segments  *services.SegmentService
	Narrative *services.NarrativeService
	Metrics   *metrics.Registry
}

// NewApp builds the Fiber app with the middleware stack and every route
// mounted.
func NewApp(cfg *config.Config, svc *Services) *fiber.App {
	app := fiber.New(fiber.Config{
		StrictRouting: true,
		CaseSensitive: true,
		ServerHeader:  "LabelPulse",
		AppName:       "LabelPulse v1.0",
		ReadTimeout:   time.Second * 10,
		WriteTimeout:  time.Second * 40,
		BodyLimit:     4 * 1024 * 1024, // 4MB
		ErrorHandler:  CustomErrorHandler,
		JSONEncoder:   json.Marshal,
		JSONDecoder:   json.Unmarshal,
	})

	// Middleware stack
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logging.Middleware())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))
	if cfg.RateLimit > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit,
			Expiration: 1 * time.Minute,
			Next: func(c *fiber.Ctx) bool {
				return c.Path() == "/health" || c.Path() == "/metrics"
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(429).JSON(fiber.Map{
					"error": "Rate limit exceeded. Please try again later.",
				})
			},
		}))
	}

	releaseHandler := NewReleaseHandler(svc.Catalog)
	forecastHandler := NewForecastHandler(svc.Forecasts)
	insightsHandler := NewInsightsHandler(svc.Catalog, svc.Segments, svc.Narrative)
	healthHandler := NewHealthHandler(cfg, svc.Catalog)
	liveHandler := NewLiveHandler(cfg)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": serviceName,
			"version": version,
			"status":  "running",
		})
	})

	app.Get("/health", healthHandler.Health)
	app.Get("/health/ready", healthHandler.Ready)
	if svc.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(svc.Metrics.Handler()))
	}

	api := app.Group("/api")
	api.Get("/database", releaseHandler.GetDatabase)
	api.Get("/release/:id", releaseHandler.GetRelease)
	api.Get("/forecast/:id", forecastHandler.GetForecast)
	api.Get("/forecast/:id/chart", forecastHandler.GetChart)
	api.Get("/clusters", insightsHandler.GetClusters)
	api.Get("/marketing/:id", insightsHandler.GetMarketing)
	api.Get("/generate-asset/:id", releaseHandler.GenerateAsset)
	api.Get("/triggers/:id", releaseHandler.GetTriggers)
	api.Post("/chat", insightsHandler.Chat)
	api.Get("/live", liveHandler.GetLive)

	return app
}
