package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"trending-videos/domain/model"
	"trending-videos/infrastructure/logger"
)

// EnsureListingCacheSchema creates the listing cache table if not exists
func EnsureListingCacheSchema(db *sql.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS listing_cache (
        cache_key TEXT PRIMARY KEY,
        records JSONB NOT NULL,
        fetched_at TIMESTAMPTZ NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL
    )`
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("create listing_cache table: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_listing_cache_fetched_at ON listing_cache(fetched_at)`); err != nil {
		logger.GetLogger().WithField("error", err).Warn("failed creating idx_listing_cache_fetched_at")
	}
	return nil
}

// ListingCacheRepository keeps one JSONB row per durable cache key.
// A single upsert replaces the whole listing.
type ListingCacheRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewListingCacheRepository(db *sql.DB) *ListingCacheRepository {
	return &ListingCacheRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock replaces the time source used to stamp new entries
func (r *ListingCacheRepository) WithClock(now func() time.Time) *ListingCacheRepository {
	r.now = now
	return r
}

func (r *ListingCacheRepository) Get(ctx context.Context, key model.CacheKey) (*model.CacheEntry, error) {
	if !key.Durable() {
		return nil, fmt.Errorf("%s is not a durable cache key", key)
	}
	row := r.db.QueryRowContext(ctx, `SELECT records, fetched_at FROM listing_cache WHERE cache_key=$1`, key.String())
	var raw []byte
	var fetchedAt time.Time
	if err := row.Scan(&raw, &fetchedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}
	records := []model.VideoRecord{}
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	for i := range records {
		if records[i].ChannelCountry == "" {
			records[i].ChannelCountry = model.UnknownCountry
		}
		if records[i].Tags == nil {
			records[i].Tags = []string{}
		}
	}
	return &model.CacheEntry{Key: key, Records: records, FetchedAt: fetchedAt.UTC()}, nil
}

func (r *ListingCacheRepository) Put(ctx context.Context, key model.CacheKey, records []model.VideoRecord) (*model.CacheEntry, error) {
	if !key.Durable() {
		return nil, fmt.Errorf("%s is not a durable cache key", key)
	}
	if records == nil {
		records = []model.VideoRecord{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return nil, err
	}
	now := r.now().UTC().Truncate(time.Microsecond)
	q := `INSERT INTO listing_cache(cache_key, records, fetched_at, updated_at)
          VALUES ($1,$2,$3,$4)
          ON CONFLICT (cache_key) DO UPDATE SET records=EXCLUDED.records, fetched_at=EXCLUDED.fetched_at, updated_at=EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, q, key.String(), raw, now, now); err != nil {
		return nil, fmt.Errorf("failed to upsert %s: %w", key, err)
	}
	return &model.CacheEntry{Key: key, Records: records, FetchedAt: now}, nil
}
