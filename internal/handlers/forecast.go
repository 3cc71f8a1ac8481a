package handlers

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"labelpulse-api/internal/chart"
	"labelpulse-api/internal/forecast"
	"labelpulse-api/internal/services"

	"github.com/gofiber/fiber/v2"
)

const maxHorizon = 365

type ForecastHandler struct {
	forecasts *services.ForecastService
}

func NewForecastHandler(forecasts *services.ForecastService) *ForecastHandler {
	return &ForecastHandler{
		forecasts: forecasts,
	}
}

// GetForecast handles GET /api/forecast/:id
func (h *ForecastHandler) GetForecast(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	horizon, err := parseHorizon(c.Query("horizon"))
	if err != nil {
		return respondError(c, err)
	}

	res, _, err := h.forecasts.Forecast(ctx, c.Params("id"), c.Query("algo"), horizon)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(res.Values)
}

// GetChart handles GET /api/forecast/:id/chart
func (h *ForecastHandler) GetChart(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	horizon, err := parseHorizon(c.Query("horizon"))
	if err != nil {
		return respondError(c, err)
	}

	res, release, err := h.forecasts.Forecast(ctx, c.Params("id"), c.Query("algo"), horizon)
	if err != nil {
		return respondError(c, err)
	}

	title := fmt.Sprintf("%s - %s (%s)", release.Artist, release.TrackName, res.Algorithm)
	var buf bytes.Buffer
	if err := chart.Render(&buf, title, release.Stats.History, res.Values); err != nil {
		return err
	}

	c.Type("html")
	return c.Send(buf.Bytes())
}

// parseHorizon accepts an empty value as the default horizon.
func parseHorizon(raw string) (int, error) {
	if raw == "" {
		return forecast.DefaultHorizon, nil
	}
	horizon, err := strconv.Atoi(raw)
	if err != nil || horizon < 1 || horizon > maxHorizon {
		return 0, fmt.Errorf("horizon %q must be an integer in [1, %d]: %w", raw, maxHorizon, forecast.ErrInvalidHorizon)
	}
	return horizon, nil
}
