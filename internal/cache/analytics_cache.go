package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"surveylyze_backend/internal/model"

	"github.com/go-redis/redis/v8"
)

// AnalyticsCache keeps the aggregated question stats of one survey. Entries
// are dropped whenever a new submission for that survey is accepted.
type AnalyticsCache interface {
	Get(ctx context.Context, surveyID uint) ([]model.QuestionStats, bool, error)
	Set(ctx context.Context, surveyID uint, stats []model.QuestionStats) error
	Invalidate(ctx context.Context, surveyID uint) error
}

type analyticsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAnalyticsCache(client *redis.Client, ttl time.Duration) AnalyticsCache {
	if client == nil || ttl <= 0 {
		return noopAnalyticsCache{}
	}
	return &analyticsCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *analyticsCache) key(surveyID uint) string {
	return fmt.Sprintf("analytics:survey:%d", surveyID)
}

func (c *analyticsCache) Get(ctx context.Context, surveyID uint) ([]model.QuestionStats, bool, error) {
	data, err := c.client.Get(ctx, c.key(surveyID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var stats []model.QuestionStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, false, err
	}
	return stats, true, nil
}

func (c *analyticsCache) Set(ctx context.Context, surveyID uint, stats []model.QuestionStats) error {
	if stats == nil {
		stats = []model.QuestionStats{}
	}
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(surveyID), data, c.ttl).Err()
}

func (c *analyticsCache) Invalidate(ctx context.Context, surveyID uint) error {
	return c.client.Del(ctx, c.key(surveyID)).Err()
}

// noopAnalyticsCache is used when redis is disabled; every read misses.
type noopAnalyticsCache struct{}

func NewNoopAnalyticsCache() AnalyticsCache {
	return noopAnalyticsCache{}
}

func (noopAnalyticsCache) Get(context.Context, uint) ([]model.QuestionStats, bool, error) {
	return nil, false, nil
}

func (noopAnalyticsCache) Set(context.Context, uint, []model.QuestionStats) error { return nil }

func (noopAnalyticsCache) Invalidate(context.Context, uint) error { return nil }
