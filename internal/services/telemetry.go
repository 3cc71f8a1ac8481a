package services

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"labelpulse-api/internal/models"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var telemetryLabels = []string{"T+0", "T+15", "T+30", "T+45", "T+60", "T+75", "T+90"}

// TelemetrySimulator periodically rewrites the synthetic live feed file. It is
// independent of the database document.
type TelemetrySimulator struct {
	path     string
	interval time.Duration
	rng      *rand.Rand
	now      func() time.Time
}

func NewTelemetrySimulator(path string, interval time.Duration, seed int64) *TelemetrySimulator {
	return &TelemetrySimulator{
		path:     path,
		interval: interval,
		rng:      rand.New(rand.NewSource(seed)),
		now:      time.Now,
	}
}

// between returns a uniform integer in [lo, hi].
func (s *TelemetrySimulator) between(lo, hi int) int {
	return lo + s.rng.Intn(hi-lo+1)
}

// Generate draws one snapshot of the feed.
func (s *TelemetrySimulator) Generate() models.Telemetry {
	base := s.between(4000, 6000)
	p50 := make([]int, len(telemetryLabels))
	p90 := make([]float64, len(p50))
	p10 := make([]float64, len(p50))
	for i := range p50 {
		p50[i] = base + i*1000 + s.between(-500, 800)
		p90[i] = float64(p50[i]) * 1.15
		p10[i] = float64(p50[i]) * 0.85
	}

	highVol := models.Scatter{X: make([]int, 10), Y: make([]int, 10)}
	for i := range highVol.X {
		highVol.X[i] = s.between(10, 25)
	}
	for i := range highVol.Y {
		highVol.Y[i] = s.between(20, 35)
	}
	niche := models.Scatter{X: make([]int, 10), Y: make([]int, 10)}
	for i := range niche.X {
		niche.X[i] = highVol.X[i] + 30
		niche.Y[i] = highVol.Y[i] + 30
	}

	latency := s.between(15, 120)
	alertType := "info"
	if latency >= 80 {
		alertType = "warning"
	}

	now := s.now()
	return models.Telemetry{
		ID:        uuid.NewString(),
		Timestamp: float64(now.UnixNano()) / float64(time.Second),
		SystemStatus: models.SystemStatus{
			APILatencyMs:   latency,
			GPULoadPercent: s.between(20, 95),
			TokensUsed:     s.between(40000, 90000),
		},
		Forecast: models.TelemetryForecast{
			Labels: append([]string(nil), telemetryLabels...),
			P50:    p50,
			P90:    p90,
			P10:    p10,
		},
		Clusters: models.TelemetryClusters{
			HighVol: highVol,
			Niche:   niche,
			Target:  models.Scatter{X: []int{43}, Y: []int{56}},
		},
		LatestAlert: models.TelemetryAlert{
			Msg:  fmt.Sprintf("Real-time update received. Latency: %dms", latency),
			Type: alertType,
		},
	}
}

// WriteOnce generates a snapshot and atomically replaces the feed file.
func (s *TelemetrySimulator) WriteOnce() (models.Telemetry, error) {
	snap := s.Generate()
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return snap, err
	}
	return snap, WriteFileAtomic(s.path, data, 0o644)
}

// Run writes a snapshot immediately and then on every tick until ctx is done
// or count snapshots have been written. A count of zero runs forever.
func (s *TelemetrySimulator) Run(ctx context.Context, count int) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for written := 0; count == 0 || written < count; written++ {
		if written > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}

		snap, err := s.WriteOnce()
		if err != nil {
			return fmt.Errorf("failed to write telemetry: %w", err)
		}
		log.Info().
			Str("path", s.path).
			Int("latency_ms", snap.SystemStatus.APILatencyMs).
			Msg("telemetry updated")
	}
	return nil
}

// ReadTelemetry loads the most recent feed snapshot.
func ReadTelemetry(path string) (*models.Telemetry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap models.Telemetry
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode telemetry: %w", err)
	}
	return &snap, nil
}
