package usecase

import (
	"context"
	"fmt"

	"trending-videos/domain/repository"
	"trending-videos/infrastructure/logger"
)

// PageFunc fetches one page of at most pageSize items, continuing from pageToken.
// An empty nextPageToken means there are no further pages.
type PageFunc[T any] func(ctx context.Context, pageSize int64, pageToken string) (items []T, nextPageToken string, err error)

// FetchPages walks a paginated listing until targetCount items were collected,
// a page came back empty or the continuation token ran out. Items keep the
// server order. Any page error discards everything collected so far.
func FetchPages[T any](ctx context.Context, fetch PageFunc[T], targetCount, pageSize int) ([]T, error) {
	if targetCount <= 0 {
		return []T{}, nil
	}
	if pageSize <= 0 || pageSize > repository.MaxPageSize {
		pageSize = repository.MaxPageSize
	}
	maxPages := (targetCount + pageSize - 1) / pageSize

	collected := make([]T, 0, targetCount)
	pageToken := ""
	for page := 1; page <= maxPages && len(collected) < targetCount; page++ {
		want := min(pageSize, targetCount-len(collected))
		items, next, err := fetch(ctx, int64(want), pageToken)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch page %d: %w", page, err)
		}
		if len(items) == 0 {
			logger.GetLogger().WithField("collected", len(collected)).Debug("empty page, listing exhausted")
			break
		}
		if len(items) > want {
			items = items[:want]
		}
		collected = append(collected, items...)
		logger.GetLogger().WithFields(map[string]interface{}{
			"page":      page,
			"received":  len(items),
			"collected": len(collected),
			"target":    targetCount,
		}).Debug("page fetched")

		if next == "" || next == pageToken {
			break
		}
		pageToken = next
	}
	return collected, nil
}
