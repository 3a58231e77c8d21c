package youtube

import (
	"trending-videos/domain/dto"
	"trending-videos/domain/model"
	"trending-videos/infrastructure/logger"

	"google.golang.org/api/youtube/v3"
)

func convertVideos(items []*youtube.Video) []dto.RawVideo {
	videos := make([]dto.RawVideo, 0, len(items))
	for _, item := range items {
		if item == nil || item.Id == "" {
			logShape(&model.DataShapeError{Field: "video.id", Value: ""})
			continue
		}
		videos = append(videos, convertVideo(item))
	}
	return videos
}

// convertVideo maps an API video into a RawVideo; absent sub-objects leave
// their fields at the zero default
func convertVideo(video *youtube.Video) dto.RawVideo {
	raw := dto.RawVideo{ID: video.Id, Tags: []string{}}

	if s := video.Snippet; s != nil {
		raw.Title = s.Title
		raw.PublishedAt = s.PublishedAt
		raw.CategoryID = s.CategoryId
		raw.ChannelID = s.ChannelId
		raw.ChannelTitle = s.ChannelTitle
		if len(s.Tags) > 0 {
			raw.Tags = s.Tags
		}
	} else {
		logShape(&model.DataShapeError{Field: "video.snippet", Value: video.Id})
	}

	if st := video.Statistics; st != nil {
		raw.ViewCount = st.ViewCount
		raw.LikeCount = st.LikeCount
	}
	if cd := video.ContentDetails; cd != nil {
		raw.Duration = cd.Duration
	}
	return raw
}

// convertChannel prefers the snippet country and falls back to branding settings
func convertChannel(ch *youtube.Channel) dto.RawChannel {
	raw := dto.RawChannel{ID: ch.Id}
	if ch.Snippet != nil {
		raw.Title = ch.Snippet.Title
		raw.Country = ch.Snippet.Country
	}
	if raw.Country == "" && ch.BrandingSettings != nil && ch.BrandingSettings.Channel != nil {
		raw.Country = ch.BrandingSettings.Channel.Country
	}
	return raw
}

func logShape(err *model.DataShapeError) {
	logger.GetLogger().WithField("issue", err.Error()).Debug("unexpected payload shape")
}
