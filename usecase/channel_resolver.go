package usecase

import (
	"context"
	"fmt"

	"trending-videos/domain/model"
	"trending-videos/domain/repository"
	"trending-videos/infrastructure/logger"
)

// DedupeIDs drops empty and repeated identifiers, keeping first-seen order
func DedupeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Batch splits ids into consecutive chunks of at most size elements
func Batch(ids []string, size int) [][]string {
	if size <= 0 {
		size = repository.MaxBatchSize
	}
	batches := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		batches = append(batches, ids[start:end])
	}
	return batches
}

// ChannelResolver looks up channel metadata in bounded batches
type ChannelResolver struct {
	platform repository.IVideoPlatform
}

func NewChannelResolver(platform repository.IVideoPlatform) *ChannelResolver {
	return &ChannelResolver{platform: platform}
}

// Resolve returns metadata for every channel the platform knows about.
// Channels missing from the response are omitted, not reported as errors.
// A single failed batch fails the whole resolution.
func (r *ChannelResolver) Resolve(ctx context.Context, channelIDs []string) (map[string]model.ChannelMetadata, error) {
	unique := DedupeIDs(channelIDs)
	batches := Batch(unique, repository.MaxBatchSize)
	logger.GetLogger().WithFields(map[string]interface{}{
		"referenced": len(channelIDs),
		"unique":     len(unique),
		"batches":    len(batches),
	}).Info("resolving channel metadata")

	result := make(map[string]model.ChannelMetadata, len(unique))
	for i, batch := range batches {
		channels, err := r.platform.GetChannels(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve channel batch %d/%d: %w", i+1, len(batches), err)
		}
		for _, ch := range channels {
			result[ch.ID] = model.ChannelMetadata{ID: ch.ID, Title: ch.Title, Country: ch.Country}
		}
	}
	return result, nil
}
