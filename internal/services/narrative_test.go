package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"labelpulse-api/internal/config"
	"labelpulse-api/internal/metrics"
	"labelpulse-api/internal/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	text    string
	err     error
	calls   int
	prompts []string
}

func (g *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	g.calls++
	g.prompts = append(g.prompts, prompt)
	return g.text, g.err
}

func (g *stubGenerator) Model() string { return "stub-model" }

func testAIConfig(apiKey string) *config.Config {
	return &config.Config{
		AI: config.AIConfig{
			APIKey:        apiKey,
			Model:         "stub-model",
			Timeout:       time.Second,
			RatePerSecond: 1000,
			Burst:         100,
		},
	}
}

func TestMarketingStrategy(t *testing.T) {
	release := &DemoDatabase().Releases[0]

	testData := map[string]struct {
		apiKey    string
		generator *stubGenerator
		expected  string
	}{
		"fenced html": {
			apiKey:    "key",
			generator: &stubGenerator{text: "```html\n<h1>Campaign Vibe</h1>\n```"},
			expected:  "<h1>Campaign Vibe</h1>",
		},
		"upstream failure": {
			apiKey:    "key",
			generator: &stubGenerator{err: errors.New("status 500")},
			expected:  MarketingFallback,
		},
		"no api key": {
			generator: &stubGenerator{text: "<p>unused</p>"},
			expected:  MarketingFallback,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			svc := NewNarrativeService(testAIConfig(td.apiKey), td.generator, nil, nil)
			assert.Equal(t, td.expected, svc.MarketingStrategy(context.Background(), release))
		})
	}
}

func TestMarketingStrategyCached(t *testing.T) {
	ctx := context.Background()
	release := &DemoDatabase().Releases[0]
	gen := &stubGenerator{text: "<h1>Campaign Vibe</h1>"}
	cache := NewCacheServiceWithStore(time.Hour, nil, nil)
	defer cache.Close()

	svc := NewNarrativeService(testAIConfig("key"), gen, cache, nil)
	first := svc.MarketingStrategy(ctx, release)
	second := svc.MarketingStrategy(ctx, release)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, gen.calls)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "ARTIST: Lunar Echo")
	assert.Contains(t, gen.prompts[0], "BUDGET: $15000")

	stored, ok := cache.GetStrategy(ctx, release.ID)
	require.True(t, ok)
	assert.Equal(t, "stub-model", stored.Model)
}

func TestMarketingFailureNotCached(t *testing.T) {
	ctx := context.Background()
	release := &DemoDatabase().Releases[0]
	gen := &stubGenerator{err: errors.New("timeout")}
	cache := NewCacheServiceWithStore(time.Hour, nil, nil)
	defer cache.Close()

	svc := NewNarrativeService(testAIConfig("key"), gen, cache, nil)
	assert.Equal(t, MarketingFallback, svc.MarketingStrategy(ctx, release))

	_, ok := cache.GetStrategy(ctx, release.ID)
	assert.False(t, ok)
}

func TestChat(t *testing.T) {
	ctx := context.Background()
	db := DemoDatabase()
	req := models.ChatRequest{Message: "Who should we pitch to?", ContextID: "REL-2024-X1"}

	t.Run("answer", func(t *testing.T) {
		gen := &stubGenerator{text: "Berlin Underground."}
		svc := NewNarrativeService(testAIConfig("key"), gen, nil, nil)

		assert.Equal(t, "Berlin Underground.", svc.Chat(ctx, req, db))
		require.Len(t, gen.prompts, 1)
		assert.Contains(t, gen.prompts[0], "User Question: Who should we pitch to?")
		assert.Contains(t, gen.prompts[0], "FOCUS RELEASE: Midnight Protocol by Lunar Echo")
		assert.Contains(t, gen.prompts[0], `"avg_order_val"`)
	})

	t.Run("no api key", func(t *testing.T) {
		svc := NewNarrativeService(testAIConfig(""), &stubGenerator{}, nil, nil)
		assert.Equal(t, "AI Error: GEMINI_API_KEY is not configured", svc.Chat(ctx, req, db))
	})

	t.Run("upstream failure", func(t *testing.T) {
		reg := metrics.New()
		svc := NewNarrativeService(testAIConfig("key"), &stubGenerator{err: errors.New("quota exceeded")}, nil, reg)

		answer := svc.Chat(ctx, req, db)
		assert.Contains(t, answer, "AI Error: ")
		assert.Contains(t, answer, "quota exceeded")
		assert.Equal(t, 1.0, testutil.ToFloat64(reg.UpstreamCalls.WithLabelValues("chat", "error")))
	})
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	ctx := context.Background()
	gen := &stubGenerator{err: errors.New("unavailable")}
	svc := NewNarrativeService(testAIConfig("key"), gen, nil, nil)
	release := &DemoDatabase().Releases[0]

	for i := 0; i < 5; i++ {
		assert.Equal(t, MarketingFallback, svc.MarketingStrategy(ctx, release))
	}
	assert.Equal(t, 3, gen.calls)
}

func TestStripCodeFences(t *testing.T) {
	testData := map[string]struct {
		in       string
		expected string
	}{
		"html fence": {in: "```html\n<div>x</div>\n```", expected: "<div>x</div>"},
		"bare fence": {in: "```\n<div>x</div>```", expected: "<div>x</div>"},
		"plain":      {in: "  <div>x</div>\n", expected: "<div>x</div>"},
		"empty":      {in: "", expected: ""},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, stripCodeFences(td.in))
		})
	}
}
