package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"ragdocai/internal/model"
)

// HistoryCache is a Redis read cache for a document's QA history. The
// ledger is the source of truth; cache misses and failures just mean a
// slower read.
type HistoryCache struct {
	client     *redisv9.Client
	historyTTL time.Duration
}

func NewHistoryCache(client *redisv9.Client, historyTTL time.Duration) *HistoryCache {
	if historyTTL <= 0 {
		historyTTL = 60 * time.Second
	}
	return &HistoryCache{
		client:     client,
		historyTTL: historyTTL,
	}
}

func (c *HistoryCache) GetHistory(ctx context.Context, document string) ([]model.QAPair, bool, error) {
	raw, err := c.client.Get(ctx, c.historyKey(document)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get history failed: %w", err)
	}

	var pairs []model.QAPair
	if err := json.Unmarshal([]byte(raw), &pairs); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached history failed: %w", err)
	}
	return pairs, true, nil
}

func (c *HistoryCache) SetHistory(ctx context.Context, document string, pairs []model.QAPair) error {
	payload, err := json.Marshal(pairs)
	if err != nil {
		return fmt.Errorf("marshal history cache failed: %w", err)
	}
	if err := c.client.Set(ctx, c.historyKey(document), payload, c.historyTTL).Err(); err != nil {
		return fmt.Errorf("redis set history failed: %w", err)
	}
	return nil
}

func (c *HistoryCache) DeleteHistory(ctx context.Context, document string) error {
	if err := c.client.Del(ctx, c.historyKey(document)).Err(); err != nil {
		return fmt.Errorf("redis delete history failed: %w", err)
	}
	return nil
}

func (c *HistoryCache) historyKey(document string) string {
	return "qa:history:" + document
}
