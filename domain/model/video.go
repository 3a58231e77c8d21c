package model

import "time"

// UnknownCountry is shown when a channel does not publish its country.
const UnknownCountry = "Unknown"

// VideoRecord is one normalized video listing row
type VideoRecord struct {
	ID             string    `json:"video_id"`
	Title          string    `json:"video_title"`
	PublishedAt    time.Time `json:"video_published_at"`
	ViewCount      uint64    `json:"video_view_count"`
	LikeCount      uint64    `json:"video_like_count"`
	Duration       string    `json:"video_duration"`
	CategoryID     string    `json:"video_category_id"`
	CategoryName   string    `json:"video_category"`
	Tags           []string  `json:"video_tags"`
	ChannelID      string    `json:"channel_id"`
	ChannelTitle   string    `json:"channel_title"`
	ChannelCountry string    `json:"channel_country"`
}

// ChannelMetadata is the resolved owner information for a channel
type ChannelMetadata struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Country string `json:"country"`
}

// CacheEntry is an atomic snapshot of one cache key
type CacheEntry struct {
	Key       CacheKey      `json:"key"`
	Records   []VideoRecord `json:"records"`
	FetchedAt time.Time     `json:"fetched_at"`
}

// Age returns how old the entry is relative to now
func (e *CacheEntry) Age(now time.Time) time.Duration {
	return now.Sub(e.FetchedAt)
}

// Listing is what the presentation layer consumes for a cache key
type Listing struct {
	Key       CacheKey      `json:"key"`
	Records   []VideoRecord `json:"records"`
	FetchedAt time.Time     `json:"fetched_at"`
	IsStale   bool          `json:"is_stale"`
	Warning   string        `json:"warning,omitempty"`
}
