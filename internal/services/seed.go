package services

import (
	"fmt"
	"math"
	"math/rand"

	"labelpulse-api/internal/models"

	"github.com/google/uuid"
)

// DemoDatabase is the small fixture the dashboard ships with.
func DemoDatabase() *models.Database {
	return &models.Database{
		Releases: []models.Release{
			{
				ID:             "REL-2024-X1",
				Artist:         "Lunar Echo",
				TrackName:      "Midnight Protocol",
				Genre:          "Melodic Techno",
				MoodTags:       []string{"Dark", "Hypnotic", "Driving"},
				BPM:            126,
				EnergyScore:    0.85,
				WorkflowStatus: "Marketing",
				Stats: models.ReleaseStats{
					History:   []float64{120, 135, 142, 110, 155, 170, 190, 210, 205, 230, 245, 260, 280, 290},
					Budget:    15000,
					Sentiment: 8.2,
				},
				MarketSignals: &models.MarketSignals{
					CompetitorDrop: true,
					TikTokTrend:    "High",
				},
			},
			{
				ID:             "REL-2024-X2",
				Artist:         "Solar Drift",
				TrackName:      "Golden Hour",
				Genre:          "Deep House",
				MoodTags:       []string{"Warm", "Uplifting"},
				BPM:            122,
				EnergyScore:    0.64,
				WorkflowStatus: "Production",
				Stats: models.ReleaseStats{
					History:   []float64{80, 82, 85, 90, 88, 95, 101},
					Budget:    8000,
					Sentiment: 7.1,
				},
			},
		},
		Competitors: []models.Competitor{
			{Name: "Solar Flare", BPM: 128, EnergyScore: 0.92, SalesVelocity: 450},
			{Name: "Deep State", BPM: 124, EnergyScore: 0.78, SalesVelocity: 320},
			{Name: "Neon Horizon", BPM: 130, EnergyScore: 0.88, SalesVelocity: 410},
		},
		Customers: []models.Customer{
			{ID: "B2B-01", Name: "Berlin Underground", AvgOrderValue: 4500, BPM: 128, GenreAffinity: 0.95, Region: "EMEA"},
			{ID: "B2B-02", Name: "Tokyo Beats", AvgOrderValue: 3200, BPM: 124, GenreAffinity: 0.88, Region: "APAC"},
			{ID: "B2B-03", Name: "London Vinyl", AvgOrderValue: 2800, BPM: 118, GenreAffinity: 0.45, Region: "EMEA"},
			{ID: "B2B-04", Name: "NY Mainstream", AvgOrderValue: 8500, BPM: 100, GenreAffinity: 0.12, Region: "NA"},
			{ID: "B2B-05", Name: "Ibiza Reseller", AvgOrderValue: 6000, BPM: 126, GenreAffinity: 0.91, Region: "EMEA"},
			{ID: "B2B-06", Name: "Paris Indie", AvgOrderValue: 1500, BPM: 110, GenreAffinity: 0.60, Region: "EMEA"},
		},
		MarketSignals: models.MarketSignals{
			CompetitorDrop:           true,
			TikTokTrend:              "High",
			SimilarArtistPerformance: "+15%",
		},
	}
}

var (
	seedRegions  = []string{"EMEA", "NA", "APAC", "LATAM"}
	seedKinds    = []string{"Records", "Club", "Distro", "Radio"}
	seedTrends   = []string{"High", "Medium", "Low"}
	seedGenres   = []string{"Melodic Techno", "Deep House", "Synthwave", "Trance", "Lo-Fi Beats"}
	seedWorkflow = []string{"Production", "Marketing", "Released"}
)

const (
	historyLength = 30
	releaseCount  = 3
)

// RandomDatabase builds a large synthetic document for load testing the
// dashboard.
func RandomDatabase(rng *rand.Rand, competitors, customers int) *models.Database {
	db := &models.Database{
		Releases:    make([]models.Release, 0, releaseCount),
		Competitors: make([]models.Competitor, 0, competitors),
		Customers:   make([]models.Customer, 0, customers),
	}

	for i := 0; i < releaseCount; i++ {
		history := make([]float64, historyLength)
		for d := range history {
			history[d] = float64(100 + rng.Intn(401))
		}
		db.Releases = append(db.Releases, models.Release{
			ID:             fmt.Sprintf("REL-2024-X%d", i+1),
			Artist:         fmt.Sprintf("Artist %d", i+1),
			TrackName:      fmt.Sprintf("Track %d", i+1),
			Genre:          seedGenres[rng.Intn(len(seedGenres))],
			BPM:            118 + rng.Intn(18),
			EnergyScore:    round2(0.5 + rng.Float64()*0.5),
			WorkflowStatus: seedWorkflow[rng.Intn(len(seedWorkflow))],
			Stats: models.ReleaseStats{
				History:   history,
				Budget:    float64(5000 + rng.Intn(20001)),
				Sentiment: round2(5 + rng.Float64()*5),
			},
		})
	}

	for i := 0; i < competitors; i++ {
		db.Competitors = append(db.Competitors, models.Competitor{
			Name:          fmt.Sprintf("Competitor %d", i+1),
			BPM:           118 + rng.Intn(18),
			EnergyScore:   round2(0.5 + rng.Float64()*0.5),
			SalesVelocity: float64(50 + rng.Intn(951)),
		})
	}

	for i := 0; i < customers; i++ {
		id, err := uuid.NewRandomFromReader(rng)
		if err != nil {
			id = uuid.New()
		}
		db.Customers = append(db.Customers, models.Customer{
			ID:            "B2B-" + id.String()[:8],
			Name:          fmt.Sprintf("Customer %d %s", i+1, seedKinds[rng.Intn(len(seedKinds))]),
			AvgOrderValue: float64(500 + rng.Intn(9501)),
			BPM:           float64(100 + rng.Intn(41)),
			GenreAffinity: round2(0.1 + rng.Float64()*0.89),
			Region:        seedRegions[rng.Intn(len(seedRegions))],
		})
	}

	sign := "+"
	if rng.Intn(2) == 0 {
		sign = "-"
	}
	db.MarketSignals = models.MarketSignals{
		CompetitorDrop:           rng.Intn(2) == 0,
		TikTokTrend:              seedTrends[rng.Intn(len(seedTrends))],
		SimilarArtistPerformance: fmt.Sprintf("%s%d%%", sign, 5+rng.Intn(21)),
	}
	return db
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
