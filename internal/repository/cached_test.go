package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"jobsearch-analytics/internal/common/logger"
	"jobsearch-analytics/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	stats models.CohortStats
	err   error
	calls int
}

func (s *stubProvider) CohortStats(ctx context.Context, userID string, key models.CohortKey) (models.CohortStats, error) {
	s.calls++
	return s.stats, s.err
}

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestCachedCohorts_ReadThrough(t *testing.T) {
	mr, rdb := setupMiniredis(t)
	next := &stubProvider{stats: models.CohortStats{Count: 4, AvgDays: 6, P10: 2, P80: 10}}
	cache := NewCachedCohorts(next, rdb, time.Minute, logger.NewTestLogger(t))
	key := models.CohortKey{Industry: "fintech", JobType: "full-time", CompanySize: "small"}

	first, err := cache.CohortStats(context.Background(), "user-1", key)
	require.NoError(t, err)
	second, err := cache.CohortStats(context.Background(), "user-1", key)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, next.calls)
	assert.True(t, mr.Exists("cohort:stats:user-1:fintech:full-time:small"))

	mr.FastForward(2 * time.Minute)
	_, err = cache.CohortStats(context.Background(), "user-1", key)
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestCachedCohorts_CorruptEntryIsRefetched(t *testing.T) {
	mr, rdb := setupMiniredis(t)
	require.NoError(t, mr.Set("cohort:stats:user-1:::", "not-json"))
	next := &stubProvider{stats: models.CohortStats{Count: 1}}
	cache := NewCachedCohorts(next, rdb, time.Minute, logger.NewTestLogger(t))

	stats, err := cache.CohortStats(context.Background(), "user-1", models.CohortKey{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Count)
	assert.Equal(t, 1, next.calls)
}

func TestCachedCohorts_ProviderErrorIsNotCached(t *testing.T) {
	mr, rdb := setupMiniredis(t)
	next := &stubProvider{err: errors.New("db down")}
	cache := NewCachedCohorts(next, rdb, time.Minute, logger.NewTestLogger(t))

	_, err := cache.CohortStats(context.Background(), "user-1", models.CohortKey{})
	assert.Error(t, err)
	assert.False(t, mr.Exists("cohort:stats:user-1:::"))
}

func TestCachedCohorts_RedisFailureDegradesToDirectRead(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	key := models.CohortKey{Industry: "fintech"}
	cacheKey := "cohort:stats:user-1:fintech::"

	mock.ExpectGet(cacheKey).SetErr(errors.New("connection refused"))
	mock.Regexp().ExpectSet(cacheKey, `.*`, time.Minute).SetErr(errors.New("connection refused"))

	next := &stubProvider{stats: models.CohortStats{Count: 3, AvgDays: 4}}
	cache := NewCachedCohorts(next, rdb, time.Minute, logger.NewTestLogger(t))

	stats, err := cache.CohortStats(context.Background(), "user-1", key)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Count)
	assert.Equal(t, 1, next.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}
