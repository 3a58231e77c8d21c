package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"trending-videos/domain/model"
	"trending-videos/domain/repository"
	"trending-videos/infrastructure/logger"
)

// DefaultStaleAfter is the age past which a durable entry is refreshed
const DefaultStaleAfter = 60 * time.Minute

var (
	ErrEmptyQuery        = errors.New("search query is required")
	ErrEmptyCategoryID   = errors.New("category id is required")
	ErrInvalidCategoryID = errors.New("category id must be numeric")
)

var categoryIDPattern = regexp.MustCompile(`^[0-9]+$`)

// checkCategoryID rejects ids the remote API could never know about
func checkCategoryID(categoryID string) error {
	if categoryID == "" {
		return ErrEmptyCategoryID
	}
	if !categoryIDPattern.MatchString(categoryID) {
		return fmt.Errorf("%w: %q", ErrInvalidCategoryID, categoryID)
	}
	return nil
}

// IListingUseCase serves listings with the staleness policy applied
type IListingUseCase interface {
	GetTrending(ctx context.Context) (*model.Listing, error)
	GetCategory(ctx context.Context, categoryID string) (*model.Listing, error)
	Search(ctx context.Context, session *SearchSession, query string) (*model.Listing, error)
	// Refresh ignores freshness and re-runs the pipeline for key
	Refresh(ctx context.Context, key model.CacheKey, session *SearchSession) (*model.Listing, error)
	Categories(ctx context.Context) (map[string]string, error)
}

// IRefreshNotifier is told about every durable listing that was re-fetched and stored
type IRefreshNotifier interface {
	ListingRefreshed(ctx context.Context, listing *model.Listing) error
}

// ListingUseCase decides per access whether to serve the cache, refresh it,
// or fall back to stale data after a failed refresh
type ListingUseCase struct {
	acquirer   IAcquirer
	durable    repository.IListingCache
	staleAfter time.Duration
	now        func() time.Time
	notifier   IRefreshNotifier
	inflight   singleflight.Group
}

func NewListingUseCase(acquirer IAcquirer, durable repository.IListingCache, staleAfter time.Duration) *ListingUseCase {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &ListingUseCase{
		acquirer:   acquirer,
		durable:    durable,
		staleAfter: staleAfter,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithNotifier announces successful refreshes through n (fluent)
func (u *ListingUseCase) WithNotifier(n IRefreshNotifier) *ListingUseCase {
	u.notifier = n
	return u
}

// WithClock replaces the time source (fluent)
func (u *ListingUseCase) WithClock(now func() time.Time) *ListingUseCase {
	u.now = now
	return u
}

func (u *ListingUseCase) GetTrending(ctx context.Context) (*model.Listing, error) {
	return u.serveDurable(ctx, model.TrendingKey(), false)
}

func (u *ListingUseCase) GetCategory(ctx context.Context, categoryID string) (*model.Listing, error) {
	categoryID = strings.TrimSpace(categoryID)
	if err := checkCategoryID(categoryID); err != nil {
		return nil, err
	}
	return u.serveDurable(ctx, model.CategoryKey(categoryID), false)
}

func (u *ListingUseCase) Categories(ctx context.Context) (map[string]string, error) {
	return u.acquirer.Categories(ctx)
}

// Search serves a query from the session cache, fetching it on first use
func (u *ListingUseCase) Search(ctx context.Context, session *SearchSession, query string) (*model.Listing, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if entry, ok := session.Get(query); ok {
		return listingFrom(entry, false, ""), nil
	}
	return u.refreshSearch(ctx, session, query)
}

func (u *ListingUseCase) Refresh(ctx context.Context, key model.CacheKey, session *SearchSession) (*model.Listing, error) {
	switch key.Scope {
	case model.ScopeTrending, model.ScopeCategory:
		if key.Scope == model.ScopeCategory {
			if err := checkCategoryID(key.Value); err != nil {
				return nil, err
			}
		}
		return u.serveDurable(ctx, key, true)
	case model.ScopeSearch:
		if strings.TrimSpace(key.Value) == "" {
			return nil, ErrEmptyQuery
		}
		return u.refreshSearch(ctx, session, strings.TrimSpace(key.Value))
	}
	return nil, fmt.Errorf("unknown cache scope %q", key.Scope)
}

func (u *ListingUseCase) serveDurable(ctx context.Context, key model.CacheKey, force bool) (*model.Listing, error) {
	log := logger.GetLogger().WithField("key", key.String())

	entry, err := u.durable.Get(ctx, key)
	if err != nil {
		log.WithField("error", err).Warn("cache read failed, treating entry as missing")
		entry = nil
	}
	if entry != nil && !force {
		if age := entry.Age(u.now()); age <= u.staleAfter {
			log.WithField("age", age.String()).Debug("serving fresh cache entry")
			return listingFrom(entry, false, ""), nil
		}
	}

	// joined callers share this run, so it must outlive the caller that started it
	refreshCtx := context.WithoutCancel(ctx)
	v, err, shared := u.inflight.Do(key.String(), func() (interface{}, error) {
		return u.refreshDurable(refreshCtx, key)
	})
	if err == nil {
		if shared {
			log.Debug("joined in-flight refresh")
		}
		return v.(*model.Listing), nil
	}
	if model.IsConfiguration(err) {
		return nil, err
	}
	if entry != nil {
		log.WithField("error", err).Warn("refresh failed, serving stale cache entry")
		return listingFrom(entry, true, fmt.Sprintf("refresh failed, showing data from %s", entry.FetchedAt.Format(time.RFC3339))), nil
	}
	return nil, fmt.Errorf("%w for %s: %w", model.ErrNoCachedData, key, err)
}

func (u *ListingUseCase) refreshDurable(ctx context.Context, key model.CacheKey) (*model.Listing, error) {
	records, err := u.acquirer.Acquire(ctx, key)
	if err != nil {
		return nil, err
	}
	entry, err := u.durable.Put(ctx, key, records)
	if err != nil {
		// the fetched data is good, it just could not be kept
		logger.GetLogger().WithFields(map[string]interface{}{
			"key":   key.String(),
			"error": err,
		}).Error("failed to persist refreshed listing")
		return listingFrom(&model.CacheEntry{Key: key, Records: records, FetchedAt: u.now()}, false, "listing could not be cached"), nil
	}
	listing := listingFrom(entry, false, "")
	if u.notifier != nil {
		if err := u.notifier.ListingRefreshed(ctx, listing); err != nil {
			logger.GetLogger().WithField("key", key.String()).WithField("error", err).Warn("failed to announce refreshed listing")
		}
	}
	return listing, nil
}

func (u *ListingUseCase) refreshSearch(ctx context.Context, session *SearchSession, query string) (*model.Listing, error) {
	key := model.SearchKey(query)
	records, err := u.acquirer.Acquire(ctx, key)
	if err != nil {
		if model.IsConfiguration(err) {
			return nil, err
		}
		if previous, ok := session.Get(query); ok {
			logger.GetLogger().WithFields(map[string]interface{}{
				"key":   key.String(),
				"error": err,
			}).Warn("search refresh failed, serving previous results")
			return listingFrom(previous, true, "refresh failed, showing previous results"), nil
		}
		return nil, fmt.Errorf("%w for %s: %w", model.ErrNoCachedData, key, err)
	}
	return listingFrom(session.Put(query, records, u.now()), false, ""), nil
}

func listingFrom(entry *model.CacheEntry, stale bool, warning string) *model.Listing {
	return &model.Listing{
		Key:       entry.Key,
		Records:   entry.Records,
		FetchedAt: entry.FetchedAt,
		IsStale:   stale,
		Warning:   warning,
	}
}
