package dto

import (
	"time"

	"trending-videos/domain/model"
)

// ListingFilter narrows a listing the way the dashboard filters do
type ListingFilter struct {
	Countries  []string `form:"country"`
	Categories []string `form:"category"`
}

// Count is a labelled tally used in listing breakdowns
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ListingSummary aggregates a listing for the summary panel
type ListingSummary struct {
	TotalVideos    int     `json:"total_videos"`
	UniqueChannels int     `json:"unique_channels"`
	Countries      int     `json:"countries"`
	TotalViews     uint64  `json:"total_views"`
	ByCountry      []Count `json:"by_country"`
	ByCategory     []Count `json:"by_category"`
}

// ListingResponse is the JSON body served for every cache key
type ListingResponse struct {
	Key       string              `json:"key"`
	Records   []model.VideoRecord `json:"records"`
	FetchedAt time.Time           `json:"fetched_at"`
	IsStale   bool                `json:"is_stale"`
	Warning   string              `json:"warning,omitempty"`
	Summary   ListingSummary      `json:"summary"`
}

// CategoryResponse lists the category taxonomy of a region
type CategoryResponse struct {
	RegionCode string            `json:"region_code"`
	Categories map[string]string `json:"categories"`
}

// RefreshRequest selects the key to bust in POST /api/refresh
type RefreshRequest struct {
	Scope string `form:"scope" binding:"required,oneof=trending category search"`
	ID    string `form:"id"`
	Query string `form:"q"`
}

// ErrorResponse is returned for any failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// RefreshEvent announces a durable listing that was just re-fetched
type RefreshEvent struct {
	Key       string    `json:"key"`
	Scope     string    `json:"scope"`
	Records   int       `json:"records"`
	FetchedAt time.Time `json:"fetched_at"`
}
