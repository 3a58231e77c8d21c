package usecase

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"trending-videos/domain/dto"
	"trending-videos/domain/model"
)

var isoDuration = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// DurationResult is either a formatted duration or the raw input passed through
type DurationResult struct {
	Value  string
	Parsed bool
}

// ParseDuration converts an hours/minutes/seconds ISO-8601 duration into
// H:MM:SS, or M:SS when there are no hours. Anything else is returned unchanged.
func ParseDuration(raw string) DurationResult {
	if raw == "" {
		return DurationResult{Value: "", Parsed: false}
	}
	m := isoDuration.FindStringSubmatch(raw)
	if m == nil {
		return DurationResult{Value: raw, Parsed: false}
	}
	hours, minutes, seconds := atoiOrZero(m[1]), atoiOrZero(m[2]), atoiOrZero(m[3])
	if hours > 0 {
		return DurationResult{Value: fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds), Parsed: true}
	}
	return DurationResult{Value: fmt.Sprintf("%d:%02d", minutes, seconds), Parsed: true}
}

// FormatDuration is ParseDuration without the branch information
func FormatDuration(raw string) string {
	return ParseDuration(raw).Value
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// CanonicalCountry maps a missing channel country to model.UnknownCountry
func CanonicalCountry(country string) string {
	if country == "" {
		return model.UnknownCountry
	}
	return country
}

// NormalizeVideo maps a raw item plus lookups to a VideoRecord. It performs no I/O;
// fields it had to default are reported back as DataShapeErrors.
func NormalizeVideo(raw dto.RawVideo, categories map[string]string, channels map[string]model.ChannelMetadata) (model.VideoRecord, []*model.DataShapeError) {
	var issues []*model.DataShapeError

	var publishedAt time.Time
	if raw.PublishedAt != "" {
		t, err := time.Parse(time.RFC3339, raw.PublishedAt)
		if err != nil {
			issues = append(issues, &model.DataShapeError{Field: "publishedAt", Value: raw.PublishedAt})
		} else {
			publishedAt = t.UTC()
		}
	}

	duration := ParseDuration(raw.Duration)
	if !duration.Parsed && raw.Duration != "" {
		issues = append(issues, &model.DataShapeError{Field: "duration", Value: raw.Duration})
	}

	tags := make([]string, len(raw.Tags))
	copy(tags, raw.Tags)

	record := model.VideoRecord{
		ID:           raw.ID,
		Title:        raw.Title,
		PublishedAt:  publishedAt,
		ViewCount:    raw.ViewCount,
		LikeCount:    raw.LikeCount,
		Duration:     duration.Value,
		CategoryID:   raw.CategoryID,
		CategoryName: categories[raw.CategoryID],
		Tags:         tags,
		ChannelID:    raw.ChannelID,
		ChannelTitle: raw.ChannelTitle,
	}
	if meta, ok := channels[raw.ChannelID]; ok {
		record.ChannelTitle = meta.Title
		record.ChannelCountry = meta.Country
	}
	record.ChannelCountry = CanonicalCountry(record.ChannelCountry)
	return record, issues
}
