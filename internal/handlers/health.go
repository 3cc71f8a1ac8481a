package handlers

import (
	"context"
	"errors"
	"os"
	"time"

	"labelpulse-api/internal/config"
	"labelpulse-api/internal/models"
	"labelpulse-api/internal/services"

	"github.com/gofiber/fiber/v2"
)

const (
	serviceName = "labelpulse-api"
	version     = "1.0.0"
)

type HealthHandler struct {
	cfg       *config.Config
	catalog   *services.CatalogService
	startTime time.Time
}

func NewHealthHandler(cfg *config.Config, catalog *services.CatalogService) *HealthHandler {
	return &HealthHandler{
		cfg:       cfg,
		catalog:   catalog,
		startTime: time.Now(),
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": serviceName,
		"version": version,
		"uptime":  time.Since(h.startTime).String(),
		"time":    time.Now(),
	})
}

// Ready handles GET /health/ready
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	status, code := "ready", fiber.StatusOK
	database := "ok"
	if _, err := h.catalog.Load(ctx); err != nil {
		database = err.Error()
		status, code = "not ready", fiber.StatusServiceUnavailable
	}

	ai := "ok"
	if !h.cfg.AIEnabled() {
		ai = "disabled"
	}

	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"checks": fiber.Map{
			"api":      "ok",
			"database": database,
			"ai":       ai,
			"cache":    h.cfg.Cache.Backend,
		},
	})
}

// LiveHandler serves the telemetry file written by the simulator.
type LiveHandler struct {
	path string
}

func NewLiveHandler(cfg *config.Config) *LiveHandler {
	return &LiveHandler{path: cfg.TelemetryPath}
}

// GetLive handles GET /api/live
func (h *LiveHandler) GetLive(c *fiber.Ctx) error {
	snap, err := services.ReadTelemetry(h.path)
	if errors.Is(err, os.ErrNotExist) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{
			Error:   "Live feed unavailable",
			Message: "simulator has not written " + h.path + " yet",
			Code:    fiber.StatusServiceUnavailable,
		})
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(snap)
}
