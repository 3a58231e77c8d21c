package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"trending-videos/domain/dto"
	"trending-videos/domain/model"
	"trending-videos/usecase"
)

func queryRecords() []model.VideoRecord {
	return []model.VideoRecord{
		{ID: "a", ViewCount: 10, ChannelID: "c1", ChannelCountry: "CA", CategoryName: "Music"},
		{ID: "b", ViewCount: 30, ChannelID: "c2", ChannelCountry: "US", CategoryName: "Gaming"},
		{ID: "c", ViewCount: 20, ChannelID: "c1", ChannelCountry: "CA", CategoryName: "Gaming"},
		{ID: "d", ViewCount: 20, ChannelID: "c3", ChannelCountry: model.UnknownCountry, CategoryName: "Music"},
	}
}

func ids(records []model.VideoRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestFilterListing(t *testing.T) {
	records := queryRecords()

	assert.Equal(t, []string{"b", "c", "d", "a"}, ids(usecase.FilterListing(records, dto.ListingFilter{})))
	assert.Equal(t, []string{"c", "a"}, ids(usecase.FilterListing(records, dto.ListingFilter{Countries: []string{"CA"}})))
	assert.Equal(t, []string{"c"}, ids(usecase.FilterListing(records, dto.ListingFilter{Countries: []string{"CA"}, Categories: []string{"Gaming"}})))
	assert.Empty(t, usecase.FilterListing(records, dto.ListingFilter{Countries: []string{"FR"}}))

	// input order untouched
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(records))
}

func TestSummarize(t *testing.T) {
	summary := usecase.Summarize(queryRecords())

	assert.Equal(t, 4, summary.TotalVideos)
	assert.Equal(t, 3, summary.UniqueChannels)
	assert.Equal(t, 3, summary.Countries)
	assert.Equal(t, uint64(80), summary.TotalViews)
	assert.Equal(t, []dto.Count{{Label: "CA", Count: 2}, {Label: "US", Count: 1}, {Label: model.UnknownCountry, Count: 1}}, summary.ByCountry)
	assert.Equal(t, []dto.Count{{Label: "Gaming", Count: 2}, {Label: "Music", Count: 2}}, summary.ByCategory)
}

func TestSummarize_Empty(t *testing.T) {
	summary := usecase.Summarize(nil)
	assert.Zero(t, summary.TotalVideos)
	assert.Empty(t, summary.ByCountry)
}
