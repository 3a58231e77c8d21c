package pubsub_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"cloud.google.com/go/pubsub/pstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"trending-videos/domain/dto"
	"trending-videos/domain/model"
	"trending-videos/infrastructure/pubsub"
)

func TestRefreshPublisher_PublishesEvent(t *testing.T) {
	ctx := context.Background()
	srv := pstest.NewServer()
	defer srv.Close()

	conn, err := grpc.NewClient(srv.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	client, err := pubsub.NewPubSub(ctx, "test-project", option.WithGRPCConn(conn))
	require.NoError(t, err)
	defer client.Close()

	publisher := pubsub.NewRefreshPublisher(client, "listing-refreshed")
	defer publisher.Stop()

	fetchedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	listing := &model.Listing{
		Key:       model.CategoryKey("10"),
		Records:   []model.VideoRecord{{ID: "a"}, {ID: "b"}},
		FetchedAt: fetchedAt,
	}
	require.NoError(t, publisher.ListingRefreshed(ctx, listing))
	require.NoError(t, publisher.ListingRefreshed(ctx, listing))

	messages := srv.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, "category:10", messages[0].Attributes["key"])

	var event dto.RefreshEvent
	require.NoError(t, json.Unmarshal(messages[0].Data, &event))
	assert.Equal(t, "category:10", event.Key)
	assert.Equal(t, "category", event.Scope)
	assert.Equal(t, 2, event.Records)
	assert.True(t, fetchedAt.Equal(event.FetchedAt))
}

func TestRefreshPublisher_RecoversAfterCancelledCaller(t *testing.T) {
	srv := pstest.NewServer()
	defer srv.Close()

	conn, err := grpc.NewClient(srv.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	client, err := pubsub.NewPubSub(context.Background(), "test-project", option.WithGRPCConn(conn))
	require.NoError(t, err)
	defer client.Close()

	publisher := pubsub.NewRefreshPublisher(client, "listing-refreshed")
	defer publisher.Stop()

	listing := &model.Listing{
		Key:       model.TrendingKey(),
		Records:   []model.VideoRecord{{ID: "a"}},
		FetchedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	// the first caller gave up; whatever it returned must not poison the publisher
	_ = publisher.ListingRefreshed(cancelled, listing)

	require.NoError(t, publisher.ListingRefreshed(context.Background(), listing))

	messages := srv.Messages()
	require.NotEmpty(t, messages)
	assert.Equal(t, listing.Key.String(), messages[len(messages)-1].Attributes["key"])
}
