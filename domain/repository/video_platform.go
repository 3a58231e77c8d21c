package repository

import (
	"context"

	"trending-videos/domain/dto"
)

// Per-call identifier and page limits imposed by the remote API
const (
	MaxPageSize  = 50
	MaxBatchSize = 50
)

// IVideoPlatform is the remote client capability. Implementations must
// return *model.TransportError for every failed call.
type IVideoPlatform interface {
	// ListTrending returns one page of the region's most popular chart
	ListTrending(ctx context.Context, regionCode string, pageSize int64, pageToken string) (*dto.VideoPage, error)
	// ListTrendingByCategory returns the single page of a category chart
	ListTrendingByCategory(ctx context.Context, regionCode, categoryID string, maxResults int64) (*dto.VideoPage, error)
	// Search returns one page of matching video identifiers
	Search(ctx context.Context, req *dto.SearchRequest) (*dto.SearchPage, error)
	// GetVideos hydrates up to MaxBatchSize video identifiers
	GetVideos(ctx context.Context, ids []string) ([]dto.RawVideo, error)
	// GetChannels resolves up to MaxBatchSize channel identifiers; unknown ids are omitted
	GetChannels(ctx context.Context, ids []string) ([]dto.RawChannel, error)
	// ListCategories returns the category id to name mapping of a region
	ListCategories(ctx context.Context, regionCode string) (map[string]string, error)
}
