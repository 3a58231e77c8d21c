package usecase

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"trending-videos/domain/model"
)

const defaultSearchCapacity = 32

// SearchSession owns the ephemeral search cache of one interactive session.
// Entries are keyed by the exact query string and never go stale; they leave
// only by explicit invalidation or when the bounded cache evicts them.
type SearchSession struct {
	id      string
	entries *lru.Cache[string, *model.CacheEntry]
}

func NewSearchSession(id string, capacity int) *SearchSession {
	if capacity <= 0 {
		capacity = defaultSearchCapacity
	}
	// lru.New only fails for a non-positive size
	entries, _ := lru.New[string, *model.CacheEntry](capacity)
	return &SearchSession{id: id, entries: entries}
}

func (s *SearchSession) ID() string { return s.id }

// Get returns the cached results for query, if any
func (s *SearchSession) Get(query string) (*model.CacheEntry, bool) {
	return s.entries.Get(query)
}

// Put replaces the entry for query in full
func (s *SearchSession) Put(query string, records []model.VideoRecord, fetchedAt time.Time) *model.CacheEntry {
	entry := &model.CacheEntry{
		Key:       model.SearchKey(query),
		Records:   records,
		FetchedAt: fetchedAt.UTC(),
	}
	s.entries.Add(query, entry)
	return entry
}

// Invalidate drops the cached results for query
func (s *SearchSession) Invalidate(query string) {
	s.entries.Remove(query)
}

func (s *SearchSession) Len() int { return s.entries.Len() }

// SessionRegistry hands out search sessions by id. Idle sessions expire after
// the configured TTL and the number of live sessions is bounded.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions *expirable.LRU[string, *SearchSession]
	capacity int
}

func NewSessionRegistry(maxSessions, searchCapacity int, ttl time.Duration) *SessionRegistry {
	return &SessionRegistry{
		sessions: expirable.NewLRU[string, *SearchSession](maxSessions, nil, ttl),
		capacity: searchCapacity,
	}
}

// Session returns the session for id, creating it on first use.
// Every access pushes the session's expiry forward.
func (r *SessionRegistry) Session(id string) *SearchSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions.Get(id)
	if !ok {
		session = NewSearchSession(id, r.capacity)
	}
	r.sessions.Add(id, session)
	return session
}

func (r *SessionRegistry) Len() int { return r.sessions.Len() }
