package model

import (
	"fmt"
	"strings"
)

// CacheScope identifies which of the three caches a key lives in
type CacheScope string

const (
	ScopeTrending CacheScope = "trending"
	ScopeCategory CacheScope = "category"
	ScopeSearch   CacheScope = "search"
)

// CacheKey addresses one cache entry. Value is empty for global trending,
// the category id for category listings and the exact query for searches.
type CacheKey struct {
	Scope CacheScope `json:"scope"`
	Value string     `json:"value,omitempty"`
}

func TrendingKey() CacheKey { return CacheKey{Scope: ScopeTrending} }

func CategoryKey(categoryID string) CacheKey {
	return CacheKey{Scope: ScopeCategory, Value: categoryID}
}

func SearchKey(query string) CacheKey {
	return CacheKey{Scope: ScopeSearch, Value: query}
}

// Durable reports whether the key is persisted across restarts
func (k CacheKey) Durable() bool {
	return k.Scope == ScopeTrending || k.Scope == ScopeCategory
}

func (k CacheKey) String() string {
	if k.Value == "" {
		return string(k.Scope)
	}
	return fmt.Sprintf("%s:%s", k.Scope, k.Value)
}

// ParseCacheKey is the inverse of String
func ParseCacheKey(s string) (CacheKey, error) {
	scope, value, _ := strings.Cut(s, ":")
	switch CacheScope(scope) {
	case ScopeTrending:
		return TrendingKey(), nil
	case ScopeCategory, ScopeSearch:
		if value == "" {
			return CacheKey{}, fmt.Errorf("cache key %q has no value", s)
		}
		return CacheKey{Scope: CacheScope(scope), Value: value}, nil
	}
	return CacheKey{}, fmt.Errorf("unknown cache scope in key %q", s)
}
