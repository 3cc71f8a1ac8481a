package handlers

import (
	"labelpulse-api/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ReleaseHandler serves the document and the release scoped lookups that
// need no upstream call.
type ReleaseHandler struct {
	catalog *services.CatalogService
}

func NewReleaseHandler(catalog *services.CatalogService) *ReleaseHandler {
	return &ReleaseHandler{
		catalog: catalog,
	}
}

// GetDatabase handles GET /api/database
func (h *ReleaseHandler) GetDatabase(c *fiber.Ctx) error {
	db, err := h.catalog.Load(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(db)
}

// GetRelease handles GET /api/release/:id
func (h *ReleaseHandler) GetRelease(c *fiber.Ctx) error {
	release, _, err := h.catalog.Release(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(release)
}

// GetTriggers handles GET /api/triggers/:id
func (h *ReleaseHandler) GetTriggers(c *fiber.Ctx) error {
	release, db, err := h.catalog.Release(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(services.Triggers(services.SignalsFor(release, db)))
}

// GenerateAsset handles GET /api/generate-asset/:id
func (h *ReleaseHandler) GenerateAsset(c *fiber.Ctx) error {
	release, _, err := h.catalog.Release(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(services.GenerateAsset(release))
}
