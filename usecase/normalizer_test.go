package usecase_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"trending-videos/domain/dto"
	"trending-videos/domain/model"
	"trending-videos/usecase"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		parsed bool
	}{
		{"PT4M13S", "4:13", true},
		{"PT1H2M3S", "1:02:03", true},
		{"PT45S", "0:45", true},
		{"PT2H", "2:00:00", true},
		{"PT10M", "10:00", true},
		{"", "", false},
		{"P1DT2H", "P1DT2H", false},
		{"garbage", "garbage", false},
		{"PT1.5S", "PT1.5S", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := usecase.ParseDuration(tt.in)
			assert.Equal(t, tt.want, got.Value)
			assert.Equal(t, tt.parsed, got.Parsed)
			assert.Equal(t, tt.want, usecase.FormatDuration(tt.in))
		})
	}
}

func TestNormalizeVideo(t *testing.T) {
	raw := dto.RawVideo{
		ID:           "v1",
		Title:        "Title",
		PublishedAt:  "2024-03-01T12:00:00-05:00",
		ViewCount:    10,
		LikeCount:    2,
		Duration:     "PT4M13S",
		CategoryID:   "10",
		Tags:         []string{"x", "y"},
		ChannelID:    "c1",
		ChannelTitle: "From video",
	}
	categories := map[string]string{"10": "Music"}
	channels := map[string]model.ChannelMetadata{"c1": {ID: "c1", Title: "From channel", Country: "CA"}}

	record, issues := usecase.NormalizeVideo(raw, categories, channels)
	assert.Empty(t, issues)
	assert.Equal(t, model.VideoRecord{
		ID:             "v1",
		Title:          "Title",
		PublishedAt:    time.Date(2024, 3, 1, 17, 0, 0, 0, time.UTC),
		ViewCount:      10,
		LikeCount:      2,
		Duration:       "4:13",
		CategoryID:     "10",
		CategoryName:   "Music",
		Tags:           []string{"x", "y"},
		ChannelID:      "c1",
		ChannelTitle:   "From channel",
		ChannelCountry: "CA",
	}, record)

	raw.Tags[0] = "changed"
	assert.Equal(t, "x", record.Tags[0])
}

func TestNormalizeVideo_Defaults(t *testing.T) {
	record, issues := usecase.NormalizeVideo(dto.RawVideo{
		ID:           "v2",
		PublishedAt:  "yesterday",
		Duration:     "P1D",
		CategoryID:   "99",
		ChannelID:    "gone",
		ChannelTitle: "Fallback title",
	}, map[string]string{}, map[string]model.ChannelMetadata{})

	assert.Len(t, issues, 2)
	assert.True(t, record.PublishedAt.IsZero())
	assert.Equal(t, "P1D", record.Duration)
	assert.Empty(t, record.CategoryName)
	assert.Equal(t, []string{}, record.Tags)
	assert.Equal(t, "Fallback title", record.ChannelTitle)
	assert.Equal(t, model.UnknownCountry, record.ChannelCountry)
}

func TestTagsRoundTrip(t *testing.T) {
	assert.Equal(t, "a|b c", model.SerializeTags([]string{"a", "b c"}))
	assert.Equal(t, []string{"a", "b c"}, model.DeserializeTags("a|b c"))
	assert.Equal(t, "", model.SerializeTags(nil))
	assert.Equal(t, []string{}, model.DeserializeTags(""))
}
