package usecase

import (
	"context"
	"time"

	"trending-videos/infrastructure/logger"
)

// RefreshScheduler keeps the durable listings warm in the background. Every
// tick goes through the normal staleness policy, so fresh keys cost nothing.
type RefreshScheduler struct {
	listings   IListingUseCase
	interval   time.Duration
	categories []string
}

func NewRefreshScheduler(listings IListingUseCase, interval time.Duration, categories []string) *RefreshScheduler {
	if interval <= 0 {
		interval = DefaultStaleAfter
	}
	return &RefreshScheduler{listings: listings, interval: interval, categories: categories}
}

// Run refreshes once immediately and then on every tick until ctx is done
func (s *RefreshScheduler) Run(ctx context.Context) error {
	logger.GetLogger().WithFields(map[string]interface{}{
		"interval":   s.interval.String(),
		"categories": s.categories,
	}).Info("starting refresh scheduler")

	s.RunOnce(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.GetLogger().Info("refresh scheduler stopped")
			return nil
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce checks global trending and every configured category
func (s *RefreshScheduler) RunOnce(ctx context.Context) {
	if listing, err := s.listings.GetTrending(ctx); err != nil {
		logger.GetLogger().WithField("error", err).Warn("scheduled trending refresh failed")
	} else if listing.IsStale {
		logger.GetLogger().Warn("scheduled trending refresh degraded to stale data")
	}
	for _, id := range s.categories {
		if ctx.Err() != nil {
			return
		}
		listing, err := s.listings.GetCategory(ctx, id)
		if err != nil {
			logger.GetLogger().WithFields(map[string]interface{}{"categoryId": id, "error": err}).Warn("scheduled category refresh failed")
			continue
		}
		if listing.IsStale {
			logger.GetLogger().WithField("categoryId", id).Warn("scheduled category refresh degraded to stale data")
		}
	}
}
