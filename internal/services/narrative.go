package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"labelpulse-api/internal/config"
	"labelpulse-api/internal/metrics"
	"labelpulse-api/internal/models"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

// MarketingFallback is returned in place of a strategy whenever generation
// fails.
const MarketingFallback = "<div class='text-red-500'>AI Connection Error. Check API Key.</div>"

// DefaultChatContextID is the release a chat question is about when the
// caller does not name one.
const DefaultChatContextID = "REL-2024-X1"

// TextGenerator produces free text for a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

// NarrativeService turns release metadata into prompts for the generative API
// and never lets an upstream failure reach the caller.
type NarrativeService struct {
	cfg       *config.Config
	generator TextGenerator
	breaker   *gobreaker.CircuitBreaker[string]
	limiter   *rate.Limiter
	cache     *CacheService
	metrics   *metrics.Registry
}

func NewNarrativeService(cfg *config.Config, generator TextGenerator, cache *CacheService, m *metrics.Registry) *NarrativeService {
	st := gobreaker.Settings{
		Name:        "gemini",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	}

	return &NarrativeService{
		cfg:       cfg,
		generator: generator,
		breaker:   gobreaker.NewCircuitBreaker[string](st),
		limiter:   rate.NewLimiter(rate.Limit(cfg.AI.RatePerSecond), cfg.AI.Burst),
		cache:     cache,
		metrics:   m,
	}
}

// MarketingStrategy returns an HTML campaign plan for the release, or
// MarketingFallback when the generative API is unavailable.
func (s *NarrativeService) MarketingStrategy(ctx context.Context, release *models.Release) string {
	if s.cache != nil {
		if cached, found := s.cache.GetStrategy(ctx, release.ID); found {
			return cached.Strategy
		}
	}

	text, err := s.generate(ctx, "marketing", marketingPrompt(release))
	if err != nil {
		log.Warn().Err(err).Str("release_id", release.ID).Msg("marketing strategy generation failed")
		return MarketingFallback
	}

	strategy := stripCodeFences(text)
	if s.cache != nil {
		stored := &models.StoredStrategy{
			ReleaseID:   release.ID,
			Strategy:    strategy,
			Model:       s.generator.Model(),
			GeneratedAt: time.Now().UTC(),
		}
		if err := s.cache.SetStrategy(ctx, stored); err != nil {
			log.Warn().Err(err).Str("release_id", release.ID).Msg("failed to cache marketing strategy")
		}
	}
	return strategy
}

// Chat answers a free-form question about the database. Failures are
// reported inside the answer text.
func (s *NarrativeService) Chat(ctx context.Context, req models.ChatRequest, db *models.Database) string {
	prompt, err := chatPrompt(req, db)
	if err != nil {
		return "AI Error: " + err.Error()
	}

	text, err := s.generate(ctx, "chat", prompt)
	if err != nil {
		log.Warn().Err(err).Str("context_id", req.ContextID).Msg("chat generation failed")
		if errors.Is(err, models.ErrConfigMissing) {
			return "AI Error: GEMINI_API_KEY is not configured"
		}
		return "AI Error: " + err.Error()
	}
	return text
}

func (s *NarrativeService) generate(ctx context.Context, operation, prompt string) (string, error) {
	if !s.cfg.AIEnabled() || s.generator == nil {
		s.observe(operation, "unconfigured", 0)
		return "", fmt.Errorf("gemini api key: %w", models.ErrConfigMissing)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.AI.Timeout)
	defer cancel()

	if err := s.limiter.Wait(ctx); err != nil {
		s.observe(operation, "throttled", 0)
		return "", fmt.Errorf("%w: %w", models.ErrUpstreamUnavailable, err)
	}

	start := time.Now()
	text, err := s.breaker.Execute(func() (string, error) {
		return s.generator.GenerateContent(ctx, prompt)
	})
	if err != nil {
		s.observe(operation, "error", time.Since(start))
		return "", fmt.Errorf("%w: %w", models.ErrUpstreamUnavailable, err)
	}
	s.observe(operation, "ok", time.Since(start))
	return text, nil
}

func (s *NarrativeService) observe(operation, outcome string, latency time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.UpstreamCalls.WithLabelValues(operation, outcome).Inc()
	if latency > 0 {
		s.metrics.UpstreamLatency.WithLabelValues(operation).Observe(latency.Seconds())
	}
}

func marketingPrompt(r *models.Release) string {
	return fmt.Sprintf(`You are the Chief Marketing Officer of a leading record label.
Write a bold launch strategy for this release.

ARTIST: %s
TRACK: %s
GENRE: %s
BUDGET: $%.0f
SENTIMENT: %.1f/10

OUTPUT FORMAT:
Return only raw HTML, without markdown or code fences, styled with Tailwind CSS classes.

STRUCTURE:
1. A large bold "Campaign Vibe" headline.
2. Three rounded, shadowed cards:
   - purple/pink gradient: "The Viral Hook", a concrete TikTok or Reels concept
   - blue: "Target Persona", the exact fan profile
   - green: "Budget Split", percentages for ads, influencers and content
3. A closing "CMO Note" in italics.
`, r.Artist, r.TrackName, r.Genre, r.Stats.Budget, r.Stats.Sentiment)
}

func chatPrompt(req models.ChatRequest, db *models.Database) (string, error) {
	snapshot, err := json.Marshal(db)
	if err != nil {
		return "", fmt.Errorf("failed to encode database context: %w", err)
	}

	var focus string
	if db != nil {
		for i := range db.Releases {
			if db.Releases[i].ID == req.ContextID {
				r := db.Releases[i]
				focus = fmt.Sprintf("FOCUS RELEASE: %s by %s (%s), moods: %s\n",
					r.TrackName, r.Artist, r.Genre, strings.Join(r.MoodTags, ", "))
				break
			}
		}
	}

	return fmt.Sprintf(`You are the Chief Intelligence Officer of a record label.
DATABASE: %s
%sUser Question: %s
Answer professionally and concisely.
`, snapshot, focus, req.Message), nil
}

// stripCodeFences removes markdown code fences a model sometimes wraps HTML in.
func stripCodeFences(text string) string {
	text = strings.ReplaceAll(text, "```html", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}
