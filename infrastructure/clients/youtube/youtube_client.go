package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"trending-videos/domain/dto"
	"trending-videos/domain/model"
	"trending-videos/domain/repository"
	"trending-videos/infrastructure/logger"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

var (
	videoParts   = []string{"id", "snippet", "statistics", "contentDetails"}
	channelParts = []string{"snippet", "brandingSettings"}
)

// Config represents YouTube API configuration
type Config struct {
	APIKey         string
	RequestTimeout time.Duration
	Breaker        BreakerConfig
}

// BreakerConfig holds circuit breaker configuration
type BreakerConfig struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	FailureRatio float64
}

// Client implements repository.IVideoPlatform on the YouTube Data API v3
type Client struct {
	service *youtube.Service
	timeout time.Duration
	cb      *gobreaker.CircuitBreaker[any]
}

// NewYouTubeClient creates a read-only, API key authenticated client.
// Extra options are appended after the key, e.g. a custom endpoint.
func NewYouTubeClient(ctx context.Context, config *Config, opts ...option.ClientOption) (repository.IVideoPlatform, error) {
	if config == nil || config.APIKey == "" {
		return nil, &model.ConfigurationError{Field: "youtube.apiKey", Reason: "an API key is required"}
	}
	clientOpts := append([]option.ClientOption{option.WithAPIKey(config.APIKey)}, opts...)
	service, err := youtube.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, &model.ConfigurationError{Field: "youtube", Reason: fmt.Sprintf("failed to create YouTube service: %v", err)}
	}

	timeout := config.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		service: service,
		timeout: timeout,
		cb:      newCircuitBreaker("youtube", config.Breaker),
	}, nil
}

func newCircuitBreaker(name string, cfg BreakerConfig) *gobreaker.CircuitBreaker[any] {
	ratio := cfg.FailureRatio
	if ratio <= 0 {
		ratio = 0.6
	}
	return gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= ratio
		},
		IsSuccessful: func(err error) bool {
			// rejected requests say nothing about the health of the API
			return err == nil || isClientError(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.GetLogger().WithFields(map[string]interface{}{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("circuit breaker state changed")
		},
	})
}

func isClientError(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code >= 400 && gerr.Code < 500 && gerr.Code != http.StatusTooManyRequests
	}
	return false
}

// call runs fn under the per-call timeout and the circuit breaker, and wraps
// every failure in a TransportError
func call[T any](ctx context.Context, c *Client, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.cb.Execute(func() (any, error) {
		return fn(ctx)
	})
	if err != nil {
		var zero T
		logger.GetLogger().WithFields(map[string]interface{}{
			"op":    op,
			"state": c.cb.State().String(),
			"error": err,
		}).Warn("YouTube API call failed")
		return zero, &model.TransportError{Op: op, Err: err}
	}
	return res.(T), nil
}

// ListTrending retrieves one page of the most popular chart
func (c *Client) ListTrending(ctx context.Context, regionCode string, pageSize int64, pageToken string) (*dto.VideoPage, error) {
	return call(ctx, c, "videos.list mostPopular", func(ctx context.Context) (*dto.VideoPage, error) {
		req := c.service.Videos.List(videoParts).
			Chart("mostPopular").
			RegionCode(regionCode).
			MaxResults(pageSize)
		if pageToken != "" {
			req = req.PageToken(pageToken)
		}
		resp, err := req.Context(ctx).Do()
		if err != nil {
			return nil, err
		}
		return &dto.VideoPage{Items: convertVideos(resp.Items), NextPageToken: resp.NextPageToken}, nil
	})
}

// ListTrendingByCategory retrieves the single page of a category chart
func (c *Client) ListTrendingByCategory(ctx context.Context, regionCode, categoryID string, maxResults int64) (*dto.VideoPage, error) {
	return call(ctx, c, "videos.list mostPopular category "+categoryID, func(ctx context.Context) (*dto.VideoPage, error) {
		resp, err := c.service.Videos.List(videoParts).
			Chart("mostPopular").
			RegionCode(regionCode).
			VideoCategoryId(categoryID).
			MaxResults(min(maxResults, repository.MaxPageSize)).
			Context(ctx).
			Do()
		if err != nil {
			return nil, err
		}
		return &dto.VideoPage{Items: convertVideos(resp.Items)}, nil
	})
}

// Search retrieves one page of video identifiers matching the query
func (c *Client) Search(ctx context.Context, req *dto.SearchRequest) (*dto.SearchPage, error) {
	return call(ctx, c, "search.list", func(ctx context.Context) (*dto.SearchPage, error) {
		order := req.Order
		if order == "" {
			order = "relevance"
		}
		searchCall := c.service.Search.List([]string{"id"}).
			Q(req.Query).
			Type("video").
			RegionCode(req.RegionCode).
			MaxResults(req.PageSize).
			Order(order)
		if req.PageToken != "" {
			searchCall = searchCall.PageToken(req.PageToken)
		}
		resp, err := searchCall.Context(ctx).Do()
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(resp.Items))
		for _, item := range resp.Items {
			if item.Id != nil && item.Id.VideoId != "" {
				ids = append(ids, item.Id.VideoId)
			}
		}
		return &dto.SearchPage{VideoIDs: ids, NextPageToken: resp.NextPageToken}, nil
	})
}

// GetVideos retrieves full items for up to 50 video identifiers
func (c *Client) GetVideos(ctx context.Context, ids []string) ([]dto.RawVideo, error) {
	if len(ids) == 0 {
		return []dto.RawVideo{}, nil
	}
	if len(ids) > repository.MaxBatchSize {
		return nil, fmt.Errorf("at most %d video ids per call, got %d", repository.MaxBatchSize, len(ids))
	}
	return call(ctx, c, "videos.list id", func(ctx context.Context) ([]dto.RawVideo, error) {
		resp, err := c.service.Videos.List(videoParts).
			Id(strings.Join(ids, ",")).
			MaxResults(repository.MaxBatchSize).
			Context(ctx).
			Do()
		if err != nil {
			return nil, err
		}
		return convertVideos(resp.Items), nil
	})
}

// GetChannels retrieves metadata for up to 50 channel identifiers
func (c *Client) GetChannels(ctx context.Context, ids []string) ([]dto.RawChannel, error) {
	if len(ids) == 0 {
		return []dto.RawChannel{}, nil
	}
	if len(ids) > repository.MaxBatchSize {
		return nil, fmt.Errorf("at most %d channel ids per call, got %d", repository.MaxBatchSize, len(ids))
	}
	return call(ctx, c, "channels.list", func(ctx context.Context) ([]dto.RawChannel, error) {
		resp, err := c.service.Channels.List(channelParts).
			Id(strings.Join(ids, ",")).
			MaxResults(repository.MaxBatchSize).
			Context(ctx).
			Do()
		if err != nil {
			return nil, err
		}
		channels := make([]dto.RawChannel, 0, len(resp.Items))
		for _, ch := range resp.Items {
			channels = append(channels, convertChannel(ch))
		}
		return channels, nil
	})
}

// ListCategories retrieves the region's category id to name mapping
func (c *Client) ListCategories(ctx context.Context, regionCode string) (map[string]string, error) {
	return call(ctx, c, "videoCategories.list", func(ctx context.Context) (map[string]string, error) {
		resp, err := c.service.VideoCategories.List([]string{"snippet"}).
			RegionCode(regionCode).
			Context(ctx).
			Do()
		if err != nil {
			return nil, err
		}
		categories := make(map[string]string, len(resp.Items))
		for _, item := range resp.Items {
			if item.Snippet == nil {
				continue
			}
			categories[item.Id] = item.Snippet.Title
		}
		return categories, nil
	})
}
