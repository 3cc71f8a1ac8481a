package logging

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	testData := map[string]struct {
		level    string
		expected zerolog.Level
	}{
		"debug":   {"debug", zerolog.DebugLevel},
		"warn":    {"WARN", zerolog.WarnLevel},
		"unknown": {"chatty", zerolog.InfoLevel},
		"empty":   {"", zerolog.InfoLevel},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			Init(Config{Level: td.level, Output: &bytes.Buffer{}})
			assert.Equal(t, td.expected, zerolog.GlobalLevel())
		})
	}
}

func TestMiddleware(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)
	prev := log.Logger
	defer func() { log.Logger = prev }()

	var buf bytes.Buffer
	Init(Config{Level: "info", Format: "json", Output: &buf})

	app := fiber.New()
	app.Use(requestid.New())
	app.Use(Middleware())
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.Nil(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var line map[string]any
	require.Nil(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "GET", line["method"])
	assert.Equal(t, "/ping", line["path"])
	assert.Equal(t, float64(200), line["status"])
	assert.NotEmpty(t, line["request_id"])
}
