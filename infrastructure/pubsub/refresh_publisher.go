package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/pubsub"

	"trending-videos/domain/dto"
	"trending-videos/domain/model"
	"trending-videos/infrastructure/logger"
)

const topicLookupTimeout = 10 * time.Second

// RefreshPublisher announces every refreshed durable listing on a topic
type RefreshPublisher struct {
	client    *pubsub.Client
	topicName string

	mu    sync.Mutex
	topic *pubsub.Topic
}

func NewRefreshPublisher(client *pubsub.Client, topicName string) *RefreshPublisher {
	return &RefreshPublisher{client: client, topicName: topicName}
}

// ListingRefreshed publishes a RefreshEvent for listing and waits for the server ack
func (p *RefreshPublisher) ListingRefreshed(ctx context.Context, listing *model.Listing) error {
	topic, err := p.ensureTopic(ctx)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(dto.RefreshEvent{
		Key:       listing.Key.String(),
		Scope:     string(listing.Key.Scope),
		Records:   len(listing.Records),
		FetchedAt: listing.FetchedAt,
	})
	if err != nil {
		return err
	}

	serverID, err := topic.Publish(ctx, &pubsub.Message{
		Data:       payload,
		Attributes: map[string]string{"key": listing.Key.String()},
	}).Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to publish refresh of %s: %w", listing.Key, err)
	}
	logger.GetLogger().WithField("serverId", serverID).WithField("key", listing.Key.String()).Debug("Refresh event published")
	return nil
}

// Stop flushes pending messages
func (p *RefreshPublisher) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.topic != nil {
		p.topic.Stop()
	}
}

// ensureTopic resolves the topic, creating it if it doesn't exist. A failed
// lookup is retried on the next call. The lookup is detached from the
// caller's cancellation and bounded by its own timeout.
func (p *RefreshPublisher) ensureTopic(ctx context.Context) (*pubsub.Topic, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.topic != nil {
		return p.topic, nil
	}

	lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), topicLookupTimeout)
	defer cancel()

	topic := p.client.Topic(p.topicName)
	exists, err := topic.Exists(lookupCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to check topic %s: %w", p.topicName, err)
	}
	if !exists {
		logger.GetLogger().WithField("topic", p.topicName).Info("Topic doesn't exist - creating it")
		if topic, err = p.client.CreateTopic(lookupCtx, p.topicName); err != nil {
			return nil, fmt.Errorf("failed to create topic %s: %w", p.topicName, err)
		}
	}
	p.topic = topic
	return topic, nil
}
