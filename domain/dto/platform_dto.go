package dto

// RawVideo is a remote video item after decoding. Every optional field of the
// API payload has an explicit zero default here so the normalizer never has to
// check for missing values.
type RawVideo struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	PublishedAt  string   `json:"published_at"`
	ViewCount    uint64   `json:"view_count"`
	LikeCount    uint64   `json:"like_count"`
	Duration     string   `json:"duration"` // ISO-8601, e.g. PT4M13S
	CategoryID   string   `json:"category_id"`
	Tags         []string `json:"tags"`
	ChannelID    string   `json:"channel_id"`
	ChannelTitle string   `json:"channel_title"`
}

// RawChannel is a remote channel item after decoding. Country is "" when
// neither the snippet nor the branding settings carry one.
type RawChannel struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Country string `json:"country"`
}

// VideoPage is one page of a chart listing
type VideoPage struct {
	Items         []RawVideo `json:"items"`
	NextPageToken string     `json:"next_page_token,omitempty"`
}

// SearchPage is one page of search results; search only yields identifiers
type SearchPage struct {
	VideoIDs      []string `json:"video_ids"`
	NextPageToken string   `json:"next_page_token,omitempty"`
}

// SearchRequest carries the search parameters for one page
type SearchRequest struct {
	Query      string
	RegionCode string
	PageSize   int64
	PageToken  string
	Order      string // relevance, date, viewCount, rating, title
}
