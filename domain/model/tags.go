package model

import "strings"

// TagDelimiter separates tags in the single-column storage form
const TagDelimiter = "|"

// SerializeTags joins tags for storage; an empty list becomes ""
func SerializeTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return strings.Join(tags, TagDelimiter)
}

// DeserializeTags splits a stored tag column; "" becomes an empty, non-nil slice
func DeserializeTags(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, TagDelimiter)
}
