package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"labelpulse-api/internal/config"
	"labelpulse-api/internal/metrics"
	"labelpulse-api/internal/models"

	"cloud.google.com/go/firestore"
	"github.com/go-redis/redis/v8"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Generic in-memory cache with type safety
type Cache[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]*cacheItem[V]
	ttl   time.Duration
	now   func() time.Time
	stop  chan struct{}
	once  sync.Once
}

type cacheItem[V any] struct {
	value      V
	expiration time.Time
}

func NewCache[K comparable, V any](ttl time.Duration) *Cache[K, V] {
	c := &Cache[K, V]{
		items: make(map[K]*cacheItem[V]),
		ttl:   ttl,
		now:   time.Now,
		stop:  make(chan struct{}),
	}

	go c.cleanup(5 * time.Minute)

	return c
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, exists := c.items[key]
	if !exists || c.now().After(item.expiration) {
		var zero V
		return zero, false
	}

	return item.value, true
}

func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = &cacheItem[V]{
		value:      value,
		expiration: c.now().Add(c.ttl),
	}
}

func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Close stops the cleanup goroutine.
func (c *Cache[K, V]) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *Cache[K, V]) purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for key, item := range c.items {
		if now.After(item.expiration) {
			delete(c.items, key)
		}
	}
}

func (c *Cache[K, V]) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.purge()
		case <-c.stop:
			return
		}
	}
}

// StrategyStore is the durable tier behind the in-memory strategy cache.
// A miss returns nil without an error.
type StrategyStore interface {
	GetStrategy(ctx context.Context, releaseID string) (*models.StoredStrategy, error)
	SetStrategy(ctx context.Context, s *models.StoredStrategy) error
	Close() error
}

// CacheService caches generated marketing strategies in memory and,
// optionally, in Firestore or Redis. Forecasts and chat answers are never
// cached.
type CacheService struct {
	ttl        time.Duration
	strategies *Cache[string, *models.StoredStrategy]
	store      StrategyStore
	metrics    *metrics.Registry
}

func NewCacheService(ctx context.Context, cfg *config.Config, m *metrics.Registry) *CacheService {
	var store StrategyStore
	switch cfg.Cache.Backend {
	case "firestore":
		client, err := firestore.NewClient(ctx, cfg.Cache.FirestoreProject)
		if err != nil {
			// fall back to in-memory only
			log.Warn().Err(err).Msg("failed to initialize Firestore, using in-memory cache")
		} else {
			store = NewFirestoreStore(client)
		}
	case "redis":
		store = NewRedisStore(redis.NewClient(&redis.Options{Addr: cfg.Cache.RedisAddr}), cfg.Cache.TTL)
	}
	return NewCacheServiceWithStore(cfg.Cache.TTL, store, m)
}

func NewCacheServiceWithStore(ttl time.Duration, store StrategyStore, m *metrics.Registry) *CacheService {
	return &CacheService{
		ttl:        ttl,
		strategies: NewCache[string, *models.StoredStrategy](ttl),
		store:      store,
		metrics:    m,
	}
}

// GetStrategy retrieves a strategy from cache
func (s *CacheService) GetStrategy(ctx context.Context, releaseID string) (*models.StoredStrategy, bool) {
	// Try in-memory cache first
	if strategy, found := s.strategies.Get(releaseID); found {
		s.hit("memory")
		return strategy, true
	}
	s.miss("memory")

	if s.store == nil {
		return nil, false
	}

	strategy, err := s.store.GetStrategy(ctx, releaseID)
	if err != nil {
		log.Warn().Err(err).Str("release_id", releaseID).Msg("durable cache read failed")
		s.miss("durable")
		return nil, false
	}
	if strategy == nil || time.Since(strategy.GeneratedAt) >= s.ttl {
		s.miss("durable")
		return nil, false
	}

	s.hit("durable")
	s.strategies.Set(releaseID, strategy)
	return strategy, true
}

// SetStrategy stores a strategy in cache
func (s *CacheService) SetStrategy(ctx context.Context, strategy *models.StoredStrategy) error {
	s.strategies.Set(strategy.ReleaseID, strategy)

	if s.store != nil {
		return s.store.SetStrategy(ctx, strategy)
	}
	return nil
}

// Close releases the durable store client
func (s *CacheService) Close() error {
	s.strategies.Close()
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

func (s *CacheService) hit(tier string) {
	if s.metrics != nil {
		s.metrics.CacheHits.WithLabelValues(tier).Inc()
	}
}

func (s *CacheService) miss(tier string) {
	if s.metrics != nil {
		s.metrics.CacheMisses.WithLabelValues(tier).Inc()
	}
}

const strategyCollection = "strategies"

type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (f *FirestoreStore) GetStrategy(ctx context.Context, releaseID string) (*models.StoredStrategy, error) {
	doc, err := f.client.Collection(strategyCollection).Doc(releaseID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var strategy models.StoredStrategy
	if err := doc.DataTo(&strategy); err != nil {
		return nil, err
	}
	return &strategy, nil
}

func (f *FirestoreStore) SetStrategy(ctx context.Context, s *models.StoredStrategy) error {
	_, err := f.client.Collection(strategyCollection).Doc(s.ReleaseID).Set(ctx, s)
	return err
}

func (f *FirestoreStore) Close() error {
	return f.client.Close()
}

const redisKeyPrefix = "labelpulse:strategy:"

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (r *RedisStore) GetStrategy(ctx context.Context, releaseID string) (*models.StoredStrategy, error) {
	data, err := r.client.Get(ctx, redisKeyPrefix+releaseID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var strategy models.StoredStrategy
	if err := json.Unmarshal(data, &strategy); err != nil {
		return nil, fmt.Errorf("failed to decode cached strategy: %w", err)
	}
	return &strategy, nil
}

func (r *RedisStore) SetStrategy(ctx context.Context, s *models.StoredStrategy) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, redisKeyPrefix+s.ReleaseID, string(data), r.ttl).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
