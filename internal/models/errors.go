package models

import (
	"errors"

	"labelpulse-api/internal/forecast"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
	ErrConfigMissing       = errors.New("required configuration missing")

	ErrInsufficientData = forecast.ErrInsufficientData
)
