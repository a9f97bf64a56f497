// internal/repository/cached.go
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"jobsearch-analytics/internal/common/logger"
	"jobsearch-analytics/internal/common/metrics"
	"jobsearch-analytics/internal/models"

	"github.com/redis/go-redis/v9"
)

// CachedCohorts is a read-through Redis cache in front of another provider.
// Cache failures are logged and the backing provider is queried directly.
type CachedCohorts struct {
	next   CohortStatsProvider
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedCohorts(next CohortStatsProvider, rdb *redis.Client, ttl time.Duration, log logger.Logger) *CachedCohorts {
	return &CachedCohorts{next: next, redis: rdb, ttl: ttl, logger: log}
}

func cohortCacheKey(userID string, key models.CohortKey) string {
	return fmt.Sprintf("cohort:stats:%s:%s:%s:%s", userID, key.Industry, key.JobType, key.CompanySize)
}

func (c *CachedCohorts) CohortStats(ctx context.Context, userID string, key models.CohortKey) (models.CohortStats, error) {
	cacheKey := cohortCacheKey(userID, key)

	cached, err := c.redis.Get(ctx, cacheKey).Result()
	switch {
	case err == nil:
		var stats models.CohortStats
		if jsonErr := json.Unmarshal([]byte(cached), &stats); jsonErr == nil {
			metrics.CohortCacheHits.Inc()
			return stats, nil
		}
		c.logger.Warn("discarding unreadable cohort cache entry", map[string]interface{}{"key": cacheKey})
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("cohort cache read failed", map[string]interface{}{"key": cacheKey, "error": err})
	}
	metrics.CohortCacheMisses.Inc()

	stats, err := c.next.CohortStats(ctx, userID, key)
	if err != nil {
		return models.CohortStats{}, err
	}

	if data, err := json.Marshal(stats); err == nil {
		if err := c.redis.Set(ctx, cacheKey, data, c.ttl).Err(); err != nil {
			c.logger.Warn("cohort cache write failed", map[string]interface{}{"key": cacheKey, "error": err})
		}
	}
	return stats, nil
}
