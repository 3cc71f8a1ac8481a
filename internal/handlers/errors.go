package handlers

import (
	"errors"

	"labelpulse-api/internal/forecast"
	"labelpulse-api/internal/logging"
	"labelpulse-api/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// CustomErrorHandler handles Fiber errors
func CustomErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	return c.Status(code).JSON(models.ErrorResponse{
		Error:   "Request failed",
		Message: err.Error(),
		Code:    code,
	})
}

// respondError maps service errors onto the shared error body.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "Release not found", err)
	case errors.Is(err, forecast.ErrInsufficientData):
		return writeError(c, fiber.StatusUnprocessableEntity, "Insufficient data", err)
	case errors.Is(err, forecast.ErrInvalidHorizon):
		return writeError(c, fiber.StatusBadRequest, "Invalid horizon", err)
	}

	log.Error().Err(err).Str("request_id", logging.RequestID(c)).Str("path", c.Path()).Msg("request failed")
	return writeError(c, fiber.StatusInternalServerError, "Failed to load database", err)
}

func writeError(c *fiber.Ctx, code int, title string, err error) error {
	return c.Status(code).JSON(models.ErrorResponse{
		Error:   title,
		Message: err.Error(),
		Code:    code,
	})
}
