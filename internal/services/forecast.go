package services

import (
	"context"
	"errors"
	"fmt"

	"labelpulse-api/internal/forecast"
	"labelpulse-api/internal/metrics"
	"labelpulse-api/internal/models"

	"github.com/rs/zerolog/log"
)

// ForecastService runs the forecast engine over a release's sales history
type ForecastService struct {
	catalog *CatalogService
	metrics *metrics.Registry
}

func NewForecastService(catalog *CatalogService, m *metrics.Registry) *ForecastService {
	return &ForecastService{
		catalog: catalog,
		metrics: m,
	}
}

// Forecast predicts horizon days of sales for the release. Results are
// computed fresh on every call.
func (o *ForecastService) Forecast(ctx context.Context, releaseID, algo string, horizon int) (*forecast.Result, *models.Release, error) {
	release, _, err := o.catalog.Release(ctx, releaseID)
	if err != nil {
		return nil, nil, err
	}

	selected := forecast.ParseAlgorithm(algo)
	res, err := forecast.Forecast(release.Stats.History, selected, horizon)
	if err != nil {
		o.count(selected, "error")
		return nil, release, fmt.Errorf("release %q: %w", releaseID, err)
	}

	if res.Fallback {
		log.Debug().
			Err(res.FitErr).
			Str("release_id", releaseID).
			Str("algorithm", selected.String()).
			Msg("forecast fit failed, repeating last observation")
		if o.metrics != nil {
			o.metrics.ForecastFallbacks.WithLabelValues(selected.String()).Inc()
		}
	}
	o.count(selected, "ok")
	return res, release, nil
}

func (o *ForecastService) count(algo forecast.Algorithm, outcome string) {
	if o.metrics != nil {
		o.metrics.Forecasts.WithLabelValues(algo.String(), outcome).Inc()
	}
}

// IsInsufficientData reports whether err comes from an empty history.
func IsInsufficientData(err error) bool {
	return errors.Is(err, forecast.ErrInsufficientData)
}
