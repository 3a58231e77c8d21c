package filecsv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"sync"
	"time"

	"trending-videos/domain/model"
	"trending-videos/infrastructure/logger"
)

// Columns is the header of every listing file
var Columns = []string{
	"video_id",
	"video_title",
	"video_published_at",
	"video_view_count",
	"video_like_count",
	"video_duration",
	"video_category",
	"video_tags",
	"channel_id",
	"channel_title",
	"channel_country",
	"scraped_at",
	"video_category_id",
}

const (
	trendingFile = "top_videos.csv"
	categoryFile = "category_%s_videos.csv"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// ErrInconsistentEntry is returned for a file whose rows disagree on scraped_at
var ErrInconsistentEntry = errors.New("listing rows carry different scraped_at values")

// ListingStore keeps durable listings as one CSV file per cache key. Every
// row repeats the fetch timestamp, so a single read restores the whole entry.
type ListingStore struct {
	dir string
	now func() time.Time
	mu  sync.Mutex
}

func NewListingStore(dir string) (*ListingStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while creating cache directory")
		return nil, err
	}
	return &ListingStore{dir: dir, now: func() time.Time { return time.Now().UTC() }}, nil
}

// WithClock replaces the time source used to stamp new entries (fluent)
func (s *ListingStore) WithClock(now func() time.Time) *ListingStore {
	s.now = now
	return s
}

// Path returns the file backing key
func (s *ListingStore) Path(key model.CacheKey) (string, error) {
	switch key.Scope {
	case model.ScopeTrending:
		return filepath.Join(s.dir, trendingFile), nil
	case model.ScopeCategory:
		if key.Value == "" {
			return "", fmt.Errorf("category key without id")
		}
		return filepath.Join(s.dir, fmt.Sprintf(categoryFile, unsafeName.ReplaceAllString(key.Value, "_"))), nil
	}
	return "", fmt.Errorf("%s is not a durable cache key", key)
}

func (s *ListingStore) Get(ctx context.Context, key model.CacheKey) (*model.CacheEntry, error) {
	path, err := s.Path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	records, fetchedAt, err := readListing(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if fetchedAt.IsZero() {
		// header-only file: the write time lives in the file's mtime
		info, err := f.Stat()
		if err != nil {
			return nil, err
		}
		fetchedAt = info.ModTime().UTC()
	}
	return &model.CacheEntry{Key: key, Records: records, FetchedAt: fetchedAt}, nil
}

// Put writes the whole listing to a temp file and renames it over the old one,
// so readers see either the previous entry or the new one in full
func (s *ListingStore) Put(ctx context.Context, key model.CacheKey, records []model.VideoRecord) (*model.CacheEntry, error) {
	path, err := s.Path(key)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	fetchedAt := s.now().UTC().Truncate(time.Microsecond)
	tmp, err := os.CreateTemp(s.dir, ".listing-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}

	if err := writeListing(tmp, records, fetchedAt); err != nil {
		cleanup()
		return nil, fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return nil, err
	}
	if err := os.Chtimes(tmp.Name(), fetchedAt, fetchedAt); err != nil {
		_ = os.Remove(tmp.Name())
		return nil, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to replace %s: %w", path, err)
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"key":  key.String(),
		"rows": len(records),
		"path": path,
	}).Info("listing persisted")
	return &model.CacheEntry{Key: key, Records: records, FetchedAt: fetchedAt}, nil
}

func writeListing(w io.Writer, records []model.VideoRecord, fetchedAt time.Time) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	scrapedAt := fetchedAt.Format(time.RFC3339Nano)
	for _, r := range records {
		publishedAt := ""
		if !r.PublishedAt.IsZero() {
			publishedAt = r.PublishedAt.Format(time.RFC3339)
		}
		row := []string{
			r.ID,
			r.Title,
			publishedAt,
			strconv.FormatUint(r.ViewCount, 10),
			strconv.FormatUint(r.LikeCount, 10),
			r.Duration,
			r.CategoryName,
			model.SerializeTags(r.Tags),
			r.ChannelID,
			r.ChannelTitle,
			r.ChannelCountry,
			scrapedAt,
			r.CategoryID,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func readListing(r io.Reader) ([]model.VideoRecord, time.Time, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return []model.VideoRecord{}, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, err
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, required := range Columns[:12] {
		if _, ok := index[required]; !ok {
			return nil, time.Time{}, fmt.Errorf("missing column %q", required)
		}
	}
	field := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	records := []model.VideoRecord{}
	var fetchedAt time.Time
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, time.Time{}, err
		}

		scrapedAt, err := time.Parse(time.RFC3339Nano, field(row, "scraped_at"))
		if err != nil {
			return nil, time.Time{}, fmt.Errorf("bad scraped_at: %w", err)
		}
		if fetchedAt.IsZero() {
			fetchedAt = scrapedAt.UTC()
		} else if !scrapedAt.Equal(fetchedAt) {
			return nil, time.Time{}, ErrInconsistentEntry
		}

		var publishedAt time.Time
		if v := field(row, "video_published_at"); v != "" {
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				publishedAt = t.UTC()
			}
		}
		country := field(row, "channel_country")
		if country == "" {
			country = model.UnknownCountry
		}
		records = append(records, model.VideoRecord{
			ID:             field(row, "video_id"),
			Title:          field(row, "video_title"),
			PublishedAt:    publishedAt,
			ViewCount:      parseCount(field(row, "video_view_count")),
			LikeCount:      parseCount(field(row, "video_like_count")),
			Duration:       field(row, "video_duration"),
			CategoryID:     field(row, "video_category_id"),
			CategoryName:   field(row, "video_category"),
			Tags:           model.DeserializeTags(field(row, "video_tags")),
			ChannelID:      field(row, "channel_id"),
			ChannelTitle:   field(row, "channel_title"),
			ChannelCountry: country,
		})
	}
	return records, fetchedAt, nil
}

// parseCount reads a count column; blanks and garbage count as zero
func parseCount(s string) uint64 {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
