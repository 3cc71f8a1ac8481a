package gemini

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/models/gemini-2.0-flash:generateContent", r.URL.Path)
		assert.Equal(t, "key-123", r.Header.Get("x-goog-api-key"))

		body, err := io.ReadAll(r.Body)
		require.Nil(t, err)
		var req GenerateRequest
		require.Nil(t, json.Unmarshal(body, &req))
		require.Len(t, req.Contents, 1)
		assert.Equal(t, "hello", req.Contents[0].Parts[0].Text)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Hi "},{"text":"there"}]}}]}`))
	}))
	defer srv.Close()

	c := NewClient("key-123", "models/gemini-2.0-flash", srv.URL, time.Second)
	assert.Equal(t, "gemini-2.0-flash", c.Model())

	text, err := c.GenerateContent(context.Background(), "hello")
	require.Nil(t, err)
	assert.Equal(t, "Hi there", text)
}

func TestGenerateContentErrors(t *testing.T) {
	testData := map[string]struct {
		status int
		body   string
		errMsg string
		err    error
	}{
		"api error": {
			status: http.StatusForbidden,
			body:   `{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`,
			errMsg: "gemini returned status 403: API key not valid",
		},
		"opaque error": {
			status: http.StatusBadGateway,
			body:   `upstream down`,
			errMsg: "gemini returned status 502",
		},
		"blocked": {
			status: http.StatusOK,
			body:   `{"candidates":[],"promptFeedback":{"blockReason":"SAFETY"}}`,
			err:    ErrNoCandidate,
		},
		"empty": {
			status: http.StatusOK,
			body:   `{}`,
			err:    ErrNoCandidate,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(td.status)
				_, _ = w.Write([]byte(td.body))
			}))
			defer srv.Close()

			c := NewClient("key", "gemini-2.0-flash", srv.URL, time.Second)
			_, err := c.GenerateContent(context.Background(), "hello")
			require.NotNil(t, err)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
			}
			if td.errMsg != "" {
				assert.EqualError(t, err, td.errMsg)
			}
		})
	}
}

func TestGenerateContentNoKey(t *testing.T) {
	c := NewClient("", "gemini-2.0-flash", "", time.Second)
	_, err := c.GenerateContent(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestGenerateContentTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewClient("key", "gemini-2.0-flash", srv.URL, 50*time.Millisecond)
	_, err := c.GenerateContent(context.Background(), "hello")
	assert.NotNil(t, err)
}
