package services

import (
	"strings"

	"labelpulse-api/internal/models"
)

// Triggers derives dashboard alerts from static thresholds on market signals.
func Triggers(signals models.MarketSignals) []models.Alert {
	alerts := make([]models.Alert, 0, 2)
	if signals.CompetitorDrop {
		alerts = append(alerts, models.Alert{
			Type:  "Competition Alert",
			Color: "red",
			Msg:   "Major competitor released today.",
		})
	}
	switch strings.ToLower(signals.TikTokTrend) {
	case "high", "viral":
		alerts = append(alerts, models.Alert{
			Type:  "Viral Signal",
			Color: "green",
			Msg:   "Genre trending on TikTok.",
		})
	}
	return alerts
}
