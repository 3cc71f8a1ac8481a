package models

import "time"

// Database is the on-disk document served by the API
type Database struct {
	Releases      []Release     `json:"releases" validate:"dive"`
	Competitors   []Competitor  `json:"competitors" validate:"dive"`
	Customers     []Customer    `json:"customers" validate:"dive"`
	MarketSignals MarketSignals `json:"market_signals"`
}

// Release is a single track launch tracked by the dashboard
type Release struct {
	ID             string         `json:"id" validate:"required"`
	Artist         string         `json:"artist"`
	TrackName      string         `json:"track_name"`
	Genre          string         `json:"genre"`
	MoodTags       []string       `json:"mood_tags,omitempty"`
	BPM            int            `json:"bpm" validate:"gte=0"`
	EnergyScore    float64        `json:"energy_score"`
	WorkflowStatus string         `json:"workflow_status,omitempty"`
	Stats          ReleaseStats   `json:"stats"`
	MarketSignals  *MarketSignals `json:"market_signals,omitempty"`
}

// ReleaseStats holds the daily sales history and campaign figures
type ReleaseStats struct {
	History   []float64 `json:"history" validate:"dive,gte=0"`
	Budget    float64   `json:"budget" validate:"gte=0"`
	Sentiment float64   `json:"sentiment"`
}

// Competitor is a rival release plotted on the market radar
type Competitor struct {
	Name          string  `json:"name"`
	BPM           int     `json:"bpm" validate:"gte=0"`
	EnergyScore   float64 `json:"energy_score"`
	SalesVelocity float64 `json:"sales_velocity" validate:"gte=0"`
}

// Customer is a B2B buyer used for segmentation
type Customer struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	AvgOrderValue float64 `json:"avg_order_val" validate:"gte=0"`
	BPM           float64 `json:"bpm" validate:"gte=0"`
	GenreAffinity float64 `json:"genre_affinity"`
	Region        string  `json:"region,omitempty"`
}

// MarketSignals are the flags alert triggers are derived from
type MarketSignals struct {
	CompetitorDrop           bool   `json:"competitor_drop"`
	TikTokTrend              string `json:"tiktok_trend,omitempty"`
	SimilarArtistPerformance string `json:"similar_artist_performance,omitempty"`
}

// ClusterPoint is one customer placed on the segmentation chart
type ClusterPoint struct {
	Name    string  `json:"name"`
	X       float64 `json:"x"` // taste (bpm)
	Y       float64 `json:"y"` // money (avg order value)
	Cluster int     `json:"cluster"`
}

// MarketingResponse wraps the generated campaign strategy
type MarketingResponse struct {
	Strategy string `json:"strategy"`
}

// AssetResponse is the deterministic cover art prompt for a release
type AssetResponse struct {
	ImageURL string `json:"image_url"`
	Keywords string `json:"keywords"`
}

// Alert is a threshold trigger raised from market signals
type Alert struct {
	Type  string `json:"type"`
	Color string `json:"color"`
	Msg   string `json:"msg"`
}

// ChatRequest represents the incoming chat request
type ChatRequest struct {
	Message   string `json:"message" validate:"required,max=4000"`
	ContextID string `json:"context_id,omitempty"`
}

// ChatResponse wraps the generated answer
type ChatResponse struct {
	Response string `json:"response"`
}

// StoredStrategy is a cached marketing strategy in the durable cache tier
type StoredStrategy struct {
	ReleaseID   string    `json:"release_id" firestore:"release_id"`
	Strategy    string    `json:"strategy" firestore:"strategy"`
	Model       string    `json:"model" firestore:"model"`
	GeneratedAt time.Time `json:"generated_at" firestore:"generated_at"`
}

// Telemetry is the synthetic live feed written by the simulator
type Telemetry struct {
	ID           string            `json:"id"`
	Timestamp    float64           `json:"timestamp"`
	SystemStatus SystemStatus      `json:"system_status"`
	Forecast     TelemetryForecast `json:"forecast"`
	Clusters     TelemetryClusters `json:"clusters"`
	LatestAlert  TelemetryAlert    `json:"latest_alert"`
}

type SystemStatus struct {
	APILatencyMs   int `json:"api_latency_ms"`
	GPULoadPercent int `json:"gpu_load_percent"`
	TokensUsed     int `json:"tokens_used"`
}

type TelemetryForecast struct {
	Labels []string  `json:"labels"`
	P50    []int     `json:"p50"`
	P90    []float64 `json:"p90"`
	P10    []float64 `json:"p10"`
}

type TelemetryClusters struct {
	HighVol Scatter `json:"high_vol"`
	Niche   Scatter `json:"niche"`
	Target  Scatter `json:"target"`
}

type Scatter struct {
	X []int `json:"x"`
	Y []int `json:"y"`
}

type TelemetryAlert struct {
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

// ErrorResponse represents API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}
