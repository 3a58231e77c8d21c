package repository

import (
	"context"

	"trending-videos/domain/model"
)

// IListingCache persists whole listings under a cache key
type IListingCache interface {
	// Get returns the entry for key, or nil when the key has never been written
	Get(ctx context.Context, key model.CacheKey) (*model.CacheEntry, error)
	// Put replaces the entry for key in full, stamped with the current UTC time.
	// On error the previous entry is left untouched.
	Put(ctx context.Context, key model.CacheKey, records []model.VideoRecord) (*model.CacheEntry, error)
}
