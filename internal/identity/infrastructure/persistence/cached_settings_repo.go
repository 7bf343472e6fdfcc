package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/studyflow/internal/identity/application/settings"
	"github.com/felixgeelhaar/studyflow/internal/scheduling/domain"
	"github.com/felixgeelhaar/studyflow/pkg/observability"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisClient is the subset of *redis.Client used by the settings cache.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// CachedSettingsRepository is a read-through Redis cache in front of another
// settings repository. Cache failures fall back to the underlying store.
type CachedSettingsRepository struct {
	next    settings.Repository
	client  RedisClient
	ttl     time.Duration
	metrics observability.Metrics
	logger  *slog.Logger
}

// NewCachedSettingsRepository wraps next with a Redis cache.
func NewCachedSettingsRepository(next settings.Repository, client RedisClient, ttl time.Duration, metrics observability.Metrics, logger *slog.Logger) *CachedSettingsRepository {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedSettingsRepository{
		next:    next,
		client:  client,
		ttl:     ttl,
		metrics: metrics,
		logger:  logger,
	}
}

// cachedSettings is the cached value. Found=false records that the user has
// no stored settings so repeated lookups do not reach the database.
type cachedSettings struct {
	Found    bool                `json:"found"`
	Settings domain.UserSettings `json:"settings"`
}

func settingsKey(userID uuid.UUID) string {
	return "studyflow:settings:" + userID.String()
}

// Find serves from Redis when possible and populates the cache on a miss.
func (r *CachedSettingsRepository) Find(ctx context.Context, userID uuid.UUID) (domain.UserSettings, bool, error) {
	key := settingsKey(userID)

	raw, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached cachedSettings
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			r.metrics.Counter(observability.MetricSettingsCacheHits, 1)
			return cached.Settings, cached.Found, nil
		}
		r.logger.WarnContext(ctx, "discarding corrupt settings cache entry", "key", key)
	case !errors.Is(err, redis.Nil):
		r.logger.WarnContext(ctx, "settings cache unavailable", "error", err)
	}
	r.metrics.Counter(observability.MetricSettingsCacheMisses, 1)

	s, found, err := r.next.Find(ctx, userID)
	if err != nil {
		return domain.UserSettings{}, false, err
	}

	if body, err := json.Marshal(cachedSettings{Found: found, Settings: s}); err == nil {
		if err := r.client.Set(ctx, key, body, r.ttl).Err(); err != nil {
			r.logger.WarnContext(ctx, "failed to populate settings cache", "error", err)
		}
	}
	return s, found, nil
}

// Save writes through to the underlying store and invalidates the cache entry.
func (r *CachedSettingsRepository) Save(ctx context.Context, userID uuid.UUID, s domain.UserSettings) error {
	if err := r.next.Save(ctx, userID, s); err != nil {
		return err
	}
	if err := r.client.Del(ctx, settingsKey(userID)).Err(); err != nil {
		r.logger.WarnContext(ctx, "failed to invalidate settings cache", "error", err)
	}
	return nil
}
