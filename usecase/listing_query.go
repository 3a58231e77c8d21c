package usecase

import (
	"slices"
	"sort"

	"trending-videos/domain/dto"
	"trending-videos/domain/model"
)

// FilterListing keeps records matching any of the given channel countries and
// any of the given category names (an empty list matches everything), ranked
// by view count. The input slice is not modified.
func FilterListing(records []model.VideoRecord, filter dto.ListingFilter) []model.VideoRecord {
	out := make([]model.VideoRecord, 0, len(records))
	for _, r := range records {
		if len(filter.Countries) > 0 && !slices.Contains(filter.Countries, r.ChannelCountry) {
			continue
		}
		if len(filter.Categories) > 0 && !slices.Contains(filter.Categories, r.CategoryName) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ViewCount > out[j].ViewCount
	})
	return out
}

// Summarize builds the summary panel numbers for a set of records
func Summarize(records []model.VideoRecord) dto.ListingSummary {
	channels := make(map[string]struct{})
	countries := make(map[string]int)
	categories := make(map[string]int)
	var views uint64
	for _, r := range records {
		channels[r.ChannelID] = struct{}{}
		countries[r.ChannelCountry]++
		if r.CategoryName != "" {
			categories[r.CategoryName]++
		}
		views += r.ViewCount
	}
	return dto.ListingSummary{
		TotalVideos:    len(records),
		UniqueChannels: len(channels),
		Countries:      len(countries),
		TotalViews:     views,
		ByCountry:      rankCounts(countries),
		ByCategory:     rankCounts(categories),
	}
}

// rankCounts orders tallies by count descending, then label
func rankCounts(tally map[string]int) []dto.Count {
	out := make([]dto.Count, 0, len(tally))
	for label, n := range tally {
		out = append(out, dto.Count{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}
