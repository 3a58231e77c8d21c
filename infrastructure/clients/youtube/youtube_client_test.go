package youtube

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"trending-videos/domain/dto"
	"trending-videos/domain/model"
	"trending-videos/domain/repository"
)

const (
	testEndpoint   = "https://youtube.example.com/"
	videosURL      = testEndpoint + "youtube/v3/videos"
	channelsURL    = testEndpoint + "youtube/v3/channels"
	searchURL      = testEndpoint + "youtube/v3/search"
	categoriesURL  = testEndpoint + "youtube/v3/videoCategories"
	trendingPage1  = `{
		"nextPageToken": "CDIQAA",
		"items": [
			{
				"id": "vid-1",
				"snippet": {
					"title": "First",
					"publishedAt": "2024-05-01T12:00:00Z",
					"channelId": "UC1",
					"channelTitle": "Channel One",
					"categoryId": "10",
					"tags": ["music", "live"]
				},
				"statistics": {"viewCount": "1200", "likeCount": "34"},
				"contentDetails": {"duration": "PT4M13S"}
			},
			{
				"id": "vid-2",
				"snippet": {"title": "No stats", "channelId": "UC2", "channelTitle": "Channel Two"}
			}
		]
	}`
)

func newTestClient(t *testing.T) repository.IVideoPlatform {
	t.Helper()
	httpClient := &http.Client{}
	httpmock.ActivateNonDefault(httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)

	client, err := NewYouTubeClient(context.Background(), &Config{
		APIKey:         "test-key",
		RequestTimeout: 2 * time.Second,
		Breaker:        BreakerConfig{MaxRequests: 1, Interval: time.Minute, Timeout: time.Minute, FailureRatio: 0.6},
	}, option.WithHTTPClient(httpClient), option.WithEndpoint(testEndpoint))
	require.NoError(t, err)
	return client
}

func TestNewYouTubeClient_RequiresAPIKey(t *testing.T) {
	client, err := NewYouTubeClient(context.Background(), &Config{})
	assert.Nil(t, client)

	var ce *model.ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "youtube.apiKey", ce.Field)
}

func TestClient_ListTrending(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, videosURL, httpmock.NewStringResponder(http.StatusOK, trendingPage1))

	page, err := client.ListTrending(context.Background(), "CA", 50, "")
	require.NoError(t, err)

	assert.Equal(t, "CDIQAA", page.NextPageToken)
	require.Len(t, page.Items, 2)
	assert.Equal(t, dto.RawVideo{
		ID:           "vid-1",
		Title:        "First",
		PublishedAt:  "2024-05-01T12:00:00Z",
		ViewCount:    1200,
		LikeCount:    34,
		Duration:     "PT4M13S",
		CategoryID:   "10",
		Tags:         []string{"music", "live"},
		ChannelID:    "UC1",
		ChannelTitle: "Channel One",
	}, page.Items[0])

	// missing statistics and details default to zero values
	assert.Equal(t, uint64(0), page.Items[1].ViewCount)
	assert.Equal(t, "", page.Items[1].Duration)
	assert.Equal(t, []string{}, page.Items[1].Tags)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestClient_GetChannels_CountryFallback(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, channelsURL, httpmock.NewStringResponder(http.StatusOK, `{
		"items": [
			{"id": "UC1", "snippet": {"title": "One", "country": "CA"}},
			{"id": "UC2", "snippet": {"title": "Two"}, "brandingSettings": {"channel": {"country": "US"}}},
			{"id": "UC3", "snippet": {"title": "Three"}}
		]
	}`))

	channels, err := client.GetChannels(context.Background(), []string{"UC1", "UC2", "UC3", "UC4"})
	require.NoError(t, err)
	assert.Equal(t, []dto.RawChannel{
		{ID: "UC1", Title: "One", Country: "CA"},
		{ID: "UC2", Title: "Two", Country: "US"},
		{ID: "UC3", Title: "Three", Country: ""},
	}, channels)
}

func TestClient_GetChannels_RejectsOversizedBatch(t *testing.T) {
	client := newTestClient(t)
	ids := make([]string, repository.MaxBatchSize+1)
	for i := range ids {
		ids[i] = "UC"
	}
	_, err := client.GetChannels(context.Background(), ids)
	require.Error(t, err)
	assert.Equal(t, 0, httpmock.GetTotalCallCount())
}

func TestClient_SearchAndCategories(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, searchURL, httpmock.NewStringResponder(http.StatusOK, `{
		"nextPageToken": "next",
		"items": [
			{"id": {"kind": "youtube#video", "videoId": "a"}},
			{"id": {"kind": "youtube#channel", "channelId": "UCx"}},
			{"id": {"kind": "youtube#video", "videoId": "b"}}
		]
	}`))
	httpmock.RegisterResponder(http.MethodGet, categoriesURL, httpmock.NewStringResponder(http.StatusOK, `{
		"items": [
			{"id": "10", "snippet": {"title": "Music"}},
			{"id": "20", "snippet": {"title": "Gaming"}},
			{"id": "99"}
		]
	}`))

	page, err := client.Search(context.Background(), &dto.SearchRequest{Query: "lofi", RegionCode: "CA", PageSize: 50})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, page.VideoIDs)
	assert.Equal(t, "next", page.NextPageToken)

	categories, err := client.ListCategories(context.Background(), "CA")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"10": "Music", "20": "Gaming"}, categories)
}

func TestClient_ErrorsAreTransportErrors(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, videosURL, httpmock.NewStringResponder(http.StatusForbidden,
		`{"error": {"code": 403, "message": "quotaExceeded"}}`))

	_, err := client.ListTrending(context.Background(), "CA", 50, "")
	require.Error(t, err)
	assert.True(t, model.IsTransport(err))
}

func TestClient_BreakerOpensAfterRepeatedServerErrors(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, videosURL, httpmock.NewStringResponder(http.StatusServiceUnavailable,
		`{"error": {"code": 503, "message": "backend unavailable"}}`))

	for i := 0; i < 3; i++ {
		_, err := client.ListTrending(context.Background(), "CA", 50, "")
		require.Error(t, err)
	}

	_, err := client.ListTrending(context.Background(), "CA", 50, "")
	require.Error(t, err)
	assert.True(t, model.IsTransport(err))
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
}

func TestClient_ClientErrorsDoNotTripBreaker(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, videosURL, httpmock.NewStringResponder(http.StatusNotFound,
		`{"error": {"code": 404, "message": "chart not supported for category"}}`))

	for i := 0; i < 5; i++ {
		_, err := client.ListTrendingByCategory(context.Background(), "CA", "44", 50)
		require.Error(t, err)
		assert.False(t, errors.Is(err, gobreaker.ErrOpenState))
	}
}
