package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"labelpulse-api/internal/metrics"
	"labelpulse-api/internal/models"

	"github.com/go-redis/redismock/v8"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheExpiry(t *testing.T) {
	c := NewCache[string, int](time.Minute)
	defer c.Close()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("a", 1)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok)

	c.purge()
	assert.Empty(t, c.items)
}

type memStore struct {
	items  map[string]*models.StoredStrategy
	getErr error
	closed bool
}

func (m *memStore) GetStrategy(_ context.Context, id string) (*models.StoredStrategy, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.items[id], nil
}

func (m *memStore) SetStrategy(_ context.Context, s *models.StoredStrategy) error {
	m.items[s.ReleaseID] = s
	return nil
}

func (m *memStore) Close() error {
	m.closed = true
	return nil
}

func TestCacheServiceTiers(t *testing.T) {
	ctx := context.Background()
	reg := metrics.New()
	store := &memStore{items: map[string]*models.StoredStrategy{
		"durable": {ReleaseID: "durable", Strategy: "<p>kept</p>", GeneratedAt: time.Now()},
		"stale":   {ReleaseID: "stale", Strategy: "<p>old</p>", GeneratedAt: time.Now().Add(-2 * time.Hour)},
	}}
	svc := NewCacheServiceWithStore(time.Hour, store, reg)

	got, ok := svc.GetStrategy(ctx, "durable")
	require.True(t, ok)
	assert.Equal(t, "<p>kept</p>", got.Strategy)

	// second read is served from memory
	_, ok = svc.GetStrategy(ctx, "durable")
	require.True(t, ok)
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.CacheHits.WithLabelValues("memory")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.CacheHits.WithLabelValues("durable")))

	_, ok = svc.GetStrategy(ctx, "stale")
	assert.False(t, ok)

	require.Nil(t, svc.SetStrategy(ctx, &models.StoredStrategy{ReleaseID: "new", Strategy: "x", GeneratedAt: time.Now()}))
	assert.Contains(t, store.items, "new")

	store.getErr = errors.New("unavailable")
	_, ok = svc.GetStrategy(ctx, "missing")
	assert.False(t, ok)

	require.Nil(t, svc.Close())
	assert.True(t, store.closed)
}

func TestCacheServiceMemoryOnly(t *testing.T) {
	ctx := context.Background()
	svc := NewCacheServiceWithStore(time.Hour, nil, nil)
	defer svc.Close()

	_, ok := svc.GetStrategy(ctx, "REL-1")
	assert.False(t, ok)

	require.Nil(t, svc.SetStrategy(ctx, &models.StoredStrategy{ReleaseID: "REL-1", Strategy: "s"}))
	got, ok := svc.GetStrategy(ctx, "REL-1")
	require.True(t, ok)
	assert.Equal(t, "s", got.Strategy)
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	store := NewRedisStore(db, time.Hour)

	strategy := &models.StoredStrategy{
		ReleaseID:   "REL-2024-X1",
		Strategy:    "<h1>Campaign Vibe</h1>",
		Model:       "gemini-2.0-flash",
		GeneratedAt: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
	}
	data, err := json.Marshal(strategy)
	require.Nil(t, err)
	key := redisKeyPrefix + strategy.ReleaseID

	t.Run("set", func(t *testing.T) {
		mock.ExpectSet(key, string(data), time.Hour).SetVal("OK")
		require.Nil(t, store.SetStrategy(ctx, strategy))
		assert.Nil(t, mock.ExpectationsWereMet())
	})

	t.Run("hit", func(t *testing.T) {
		mock.ExpectGet(key).SetVal(string(data))
		got, err := store.GetStrategy(ctx, strategy.ReleaseID)
		require.Nil(t, err)
		require.NotNil(t, got)
		assert.Equal(t, strategy.Strategy, got.Strategy)
		assert.True(t, strategy.GeneratedAt.Equal(got.GeneratedAt))
		assert.Nil(t, mock.ExpectationsWereMet())
	})

	t.Run("miss", func(t *testing.T) {
		mock.ExpectGet(redisKeyPrefix + "absent").RedisNil()
		got, err := store.GetStrategy(ctx, "absent")
		require.Nil(t, err)
		assert.Nil(t, got)
		assert.Nil(t, mock.ExpectationsWereMet())
	})

	t.Run("error", func(t *testing.T) {
		mock.ExpectGet(key).SetErr(errors.New("connection refused"))
		_, err := store.GetStrategy(ctx, strategy.ReleaseID)
		assert.NotNil(t, err)
		assert.Nil(t, mock.ExpectationsWereMet())
	})
}
