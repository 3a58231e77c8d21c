package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"trending-videos/domain/model"
	"trending-videos/infrastructure/logger"
)

const DefaultKeyPrefix = "trending-videos"

type storedEntry struct {
	Records   []model.VideoRecord `json:"records"`
	FetchedAt time.Time           `json:"fetched_at"`
}

// ListingCache keeps each durable listing as one JSON value. Records and
// timestamp travel in the same SET so a reader never sees half an entry.
type ListingCache struct {
	client    *redis.Client
	keyPrefix string
	now       func() time.Time
}

func NewListingCache(client *redis.Client, keyPrefix string) *ListingCache {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &ListingCache{
		client:    client,
		keyPrefix: keyPrefix,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source used to stamp new entries
func (c *ListingCache) WithClock(now func() time.Time) *ListingCache {
	c.now = now
	return c
}

func (c *ListingCache) Get(ctx context.Context, key model.CacheKey) (*model.CacheEntry, error) {
	if !key.Durable() {
		return nil, fmt.Errorf("%s is not a durable cache key", key)
	}
	data, err := c.client.Get(ctx, c.buildKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		logger.GetLogger().WithField("key", key.String()).WithField("error", err).Error("cache get failed")
		return nil, err
	}

	var stored storedEntry
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	if stored.Records == nil {
		stored.Records = []model.VideoRecord{}
	}
	for i := range stored.Records {
		if stored.Records[i].ChannelCountry == "" {
			stored.Records[i].ChannelCountry = model.UnknownCountry
		}
		if stored.Records[i].Tags == nil {
			stored.Records[i].Tags = []string{}
		}
	}
	return &model.CacheEntry{Key: key, Records: stored.Records, FetchedAt: stored.FetchedAt.UTC()}, nil
}

// Put stores the listing without expiry; staleness is decided by the caller
func (c *ListingCache) Put(ctx context.Context, key model.CacheKey, records []model.VideoRecord) (*model.CacheEntry, error) {
	if !key.Durable() {
		return nil, fmt.Errorf("%s is not a durable cache key", key)
	}
	if records == nil {
		records = []model.VideoRecord{}
	}
	stored := storedEntry{Records: records, FetchedAt: c.now().UTC()}
	data, err := json.Marshal(stored)
	if err != nil {
		return nil, err
	}
	if err := c.client.Set(ctx, c.buildKey(key), data, 0).Err(); err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"key":   key.String(),
			"bytes": len(data),
			"error": err,
		}).Error("cache set failed")
		return nil, err
	}
	logger.GetLogger().WithField("key", key.String()).WithField("rows", len(records)).Debug("cache set")
	return &model.CacheEntry{Key: key, Records: records, FetchedAt: stored.FetchedAt}, nil
}

func (c *ListingCache) buildKey(key model.CacheKey) string {
	return c.keyPrefix + ":" + key.String()
}
