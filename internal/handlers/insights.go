package handlers

import (
	"context"
	"time"

	"labelpulse-api/internal/models"
	"labelpulse-api/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// InsightsHandler serves segmentation and the generated narratives.
type InsightsHandler struct {
	catalog   *services.CatalogService
	segments  *services.SegmentService
	narrative *services.NarrativeService
	validate  *validator.Validate
}

func NewInsightsHandler(catalog *services.CatalogService, segments *services.SegmentService, narrative *services.NarrativeService) *InsightsHandler {
	return &InsightsHandler{
		catalog:   catalog,
		segments:  segments,
		narrative: narrative,
		validate:  validator.New(),
	}
}

// GetClusters handles GET /api/clusters
func (h *InsightsHandler) GetClusters(c *fiber.Ctx) error {
	points, err := h.segments.Clusters(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(points)
}

// GetMarketing handles GET /api/marketing/:id
func (h *InsightsHandler) GetMarketing(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 30*time.Second)
	defer cancel()

	release, _, err := h.catalog.Release(ctx, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.MarketingResponse{
		Strategy: h.narrative.MarketingStrategy(ctx, release),
	})
}

// Chat handles POST /api/chat
func (h *InsightsHandler) Chat(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 30*time.Second)
	defer cancel()

	var req models.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(models.ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
			Code:    400,
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(400).JSON(models.ErrorResponse{
			Error:   "Message is required",
			Message: err.Error(),
			Code:    400,
		})
	}
	if req.ContextID == "" {
		req.ContextID = services.DefaultChatContextID
	}

	db, err := h.catalog.Load(ctx)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.ChatResponse{
		Response: h.narrative.Chat(ctx, req, db),
	})
}
