package usecase_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"trending-videos/domain/dto"
	"trending-videos/domain/model"
	"trending-videos/usecase"
)

type MockVideoPlatform struct {
	mock.Mock
}

func (m *MockVideoPlatform) ListTrending(ctx context.Context, regionCode string, pageSize int64, pageToken string) (*dto.VideoPage, error) {
	args := m.Called(ctx, regionCode, pageSize, pageToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.VideoPage), args.Error(1)
}

func (m *MockVideoPlatform) ListTrendingByCategory(ctx context.Context, regionCode, categoryID string, maxResults int64) (*dto.VideoPage, error) {
	args := m.Called(ctx, regionCode, categoryID, maxResults)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.VideoPage), args.Error(1)
}

func (m *MockVideoPlatform) Search(ctx context.Context, req *dto.SearchRequest) (*dto.SearchPage, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SearchPage), args.Error(1)
}

func (m *MockVideoPlatform) GetVideos(ctx context.Context, ids []string) ([]dto.RawVideo, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.RawVideo), args.Error(1)
}

func (m *MockVideoPlatform) GetChannels(ctx context.Context, ids []string) ([]dto.RawChannel, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.RawChannel), args.Error(1)
}

func (m *MockVideoPlatform) ListCategories(ctx context.Context, regionCode string) (map[string]string, error) {
	args := m.Called(ctx, regionCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

type MockListingCache struct {
	mock.Mock
}

func (m *MockListingCache) Get(ctx context.Context, key model.CacheKey) (*model.CacheEntry, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CacheEntry), args.Error(1)
}

func (m *MockListingCache) Put(ctx context.Context, key model.CacheKey, records []model.VideoRecord) (*model.CacheEntry, error) {
	args := m.Called(ctx, key, records)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CacheEntry), args.Error(1)
}

type MockAcquirer struct {
	mock.Mock
}

func (m *MockAcquirer) Acquire(ctx context.Context, key model.CacheKey) ([]model.VideoRecord, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.VideoRecord), args.Error(1)
}

func (m *MockAcquirer) Categories(ctx context.Context) (map[string]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

type MockListingUseCase struct {
	mock.Mock
}

func (m *MockListingUseCase) GetTrending(ctx context.Context) (*model.Listing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Listing), args.Error(1)
}

func (m *MockListingUseCase) GetCategory(ctx context.Context, categoryID string) (*model.Listing, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Listing), args.Error(1)
}

func (m *MockListingUseCase) Search(ctx context.Context, session *usecase.SearchSession, query string) (*model.Listing, error) {
	args := m.Called(ctx, session, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Listing), args.Error(1)
}

func (m *MockListingUseCase) Refresh(ctx context.Context, key model.CacheKey, session *usecase.SearchSession) (*model.Listing, error) {
	args := m.Called(ctx, key, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Listing), args.Error(1)
}

func (m *MockListingUseCase) Categories(ctx context.Context) (map[string]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

type MockRefreshNotifier struct {
	mock.Mock
}

func (m *MockRefreshNotifier) ListingRefreshed(ctx context.Context, listing *model.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}
