package usecase

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"trending-videos/domain/dto"
	"trending-videos/domain/model"
	"trending-videos/domain/repository"
	"trending-videos/infrastructure/logger"
)

// FetchTargets bounds how many videos each listing kind collects
type FetchTargets struct {
	Trending int
	Category int
	Search   int
	PageSize int
}

// IAcquirer runs the full fetch pipeline for a cache key
type IAcquirer interface {
	Acquire(ctx context.Context, key model.CacheKey) ([]model.VideoRecord, error)
	Categories(ctx context.Context) (map[string]string, error)
}

// Acquirer pages through the remote listing, resolves channels and
// normalizes the result. It keeps no state besides the category lookup.
type Acquirer struct {
	platform   repository.IVideoPlatform
	resolver   *ChannelResolver
	regionCode string
	targets    FetchTargets

	mu         sync.Mutex
	categories map[string]string
}

func NewAcquirer(platform repository.IVideoPlatform, regionCode string, targets FetchTargets) *Acquirer {
	return &Acquirer{
		platform:   platform,
		resolver:   NewChannelResolver(platform),
		regionCode: regionCode,
		targets:    targets,
	}
}

// Categories returns the region's category lookup, fetched once per process
func (a *Acquirer) Categories(ctx context.Context) (map[string]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.categories == nil {
		categories, err := a.platform.ListCategories(ctx, a.regionCode)
		if err != nil {
			return nil, fmt.Errorf("failed to list categories: %w", err)
		}
		a.categories = categories
		logger.GetLogger().WithField("count", len(categories)).Info("video categories loaded")
	}
	return maps.Clone(a.categories), nil
}

// Acquire fetches and normalizes the listing behind key
func (a *Acquirer) Acquire(ctx context.Context, key model.CacheKey) ([]model.VideoRecord, error) {
	categories, err := a.Categories(ctx)
	if err != nil {
		return nil, err
	}

	var raws []dto.RawVideo
	switch key.Scope {
	case model.ScopeTrending:
		raws, err = a.fetchTrending(ctx)
	case model.ScopeCategory:
		raws, err = a.fetchCategory(ctx, key.Value)
	case model.ScopeSearch:
		raws, err = a.fetchSearch(ctx, key.Value)
	default:
		return nil, fmt.Errorf("unknown cache scope %q", key.Scope)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", key, err)
	}
	raws = dedupeVideos(raws)

	channelIDs := make([]string, 0, len(raws))
	for _, v := range raws {
		channelIDs = append(channelIDs, v.ChannelID)
	}
	channels, err := a.resolver.Resolve(ctx, channelIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to enrich %s: %w", key, err)
	}

	records := make([]model.VideoRecord, 0, len(raws))
	for _, raw := range raws {
		record, issues := NormalizeVideo(raw, categories, channels)
		for _, issue := range issues {
			logger.GetLogger().WithFields(map[string]interface{}{
				"videoId": raw.ID,
				"issue":   issue.Error(),
			}).Debug("field defaulted during normalization")
		}
		records = append(records, record)
	}
	logger.GetLogger().WithFields(map[string]interface{}{
		"key":      key.String(),
		"videos":   len(records),
		"channels": len(channels),
	}).Info("listing acquired")
	return records, nil
}

func (a *Acquirer) fetchTrending(ctx context.Context) ([]dto.RawVideo, error) {
	page := func(ctx context.Context, pageSize int64, pageToken string) ([]dto.RawVideo, string, error) {
		resp, err := a.platform.ListTrending(ctx, a.regionCode, pageSize, pageToken)
		if err != nil {
			return nil, "", err
		}
		return resp.Items, resp.NextPageToken, nil
	}
	return FetchPages(ctx, page, a.targets.Trending, a.targets.PageSize)
}

// fetchCategory reads the single page a category chart supports
func (a *Acquirer) fetchCategory(ctx context.Context, categoryID string) ([]dto.RawVideo, error) {
	page := func(ctx context.Context, pageSize int64, _ string) ([]dto.RawVideo, string, error) {
		resp, err := a.platform.ListTrendingByCategory(ctx, a.regionCode, categoryID, pageSize)
		if err != nil {
			return nil, "", err
		}
		return resp.Items, "", nil
	}
	return FetchPages(ctx, page, min(a.targets.Category, repository.MaxPageSize), a.targets.PageSize)
}

// fetchSearch collects matching ids, then hydrates them in batches while
// keeping the search ranking
func (a *Acquirer) fetchSearch(ctx context.Context, query string) ([]dto.RawVideo, error) {
	page := func(ctx context.Context, pageSize int64, pageToken string) ([]string, string, error) {
		resp, err := a.platform.Search(ctx, &dto.SearchRequest{
			Query:      query,
			RegionCode: a.regionCode,
			PageSize:   pageSize,
			PageToken:  pageToken,
			Order:      "relevance",
		})
		if err != nil {
			return nil, "", err
		}
		return resp.VideoIDs, resp.NextPageToken, nil
	}
	ids, err := FetchPages(ctx, page, a.targets.Search, a.targets.PageSize)
	if err != nil {
		return nil, err
	}
	ids = DedupeIDs(ids)

	byID := make(map[string]dto.RawVideo, len(ids))
	for _, batch := range Batch(ids, repository.MaxBatchSize) {
		videos, err := a.platform.GetVideos(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("failed to hydrate search results: %w", err)
		}
		for _, v := range videos {
			byID[v.ID] = v
		}
	}

	out := make([]dto.RawVideo, 0, len(byID))
	for _, id := range ids {
		if v, ok := byID[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

// dedupeVideos keeps the first occurrence of every video id
func dedupeVideos(raws []dto.RawVideo) []dto.RawVideo {
	seen := make(map[string]struct{}, len(raws))
	out := make([]dto.RawVideo, 0, len(raws))
	for _, v := range raws {
		if _, ok := seen[v.ID]; ok {
			continue
		}
		seen[v.ID] = struct{}{}
		out = append(out, v)
	}
	return out
}
