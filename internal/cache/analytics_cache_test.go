package cache

import (
	"context"
	"testing"
	"time"

	"surveylyze_backend/internal/model"

	"github.com/go-redis/redis/v8"
)

func TestNewAnalyticsCacheFallsBackToNoop(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()

	for name, c := range map[string]AnalyticsCache{
		"nil client": NewAnalyticsCache(nil, time.Minute),
		"zero ttl":   NewAnalyticsCache(client, 0),
	} {
		if _, ok := c.(noopAnalyticsCache); !ok {
			t.Fatalf("%s: got %T, want noop", name, c)
		}
	}

	if _, ok := NewAnalyticsCache(client, time.Minute).(*analyticsCache); !ok {
		t.Fatal("redis client with ttl should give the redis cache")
	}
}

func TestNoopAnalyticsCache(t *testing.T) {
	ctx := context.Background()
	c := NewNoopAnalyticsCache()

	if err := c.Set(ctx, 1, []model.QuestionStats{{QuestionID: 1}}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	stats, ok, err := c.Get(ctx, 1)
	if ok || err != nil || stats != nil {
		t.Fatalf("Get = %v, %v, %v; want a miss", stats, ok, err)
	}
	if err := c.Invalidate(ctx, 1); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
}

func TestAnalyticsCacheKey(t *testing.T) {
	c := &analyticsCache{}
	if got := c.key(42); got != "analytics:survey:42" {
		t.Fatalf("key = %q", got)
	}
}
