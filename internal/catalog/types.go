package catalog

import (
	"sort"
	"strings"
)

// Item kinds as reported by the media server.
const (
	KindMovie   = "Movie"
	KindSeries  = "Series"
	KindEpisode = "Episode"
)

// TmdbIDKey is the canonical external-id key for TMDB identifiers.
const TmdbIDKey = "Tmdb"

// Item is one catalog entry as read from the media server.
type Item struct {
	ID          string            `json:"Id"`
	Name        string            `json:"Name"`
	Kind        string            `json:"Type"`
	ExternalIDs map[string]string `json:"ProviderIds"`
	Tags        []string          `json:"Tags"`
}

// ExternalID looks up an external identifier by key. The canonical spelling
// wins; otherwise the first case-insensitive match in sorted key order is
// used so lookups stay deterministic.
func (i Item) ExternalID(key string) (string, bool) {
	if len(i.ExternalIDs) == 0 {
		return "", false
	}
	if value, ok := i.ExternalIDs[key]; ok && strings.TrimSpace(value) != "" {
		return value, true
	}
	keys := make([]string, 0, len(i.ExternalIDs))
	for k := range i.ExternalIDs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.EqualFold(k, key) {
			if value := i.ExternalIDs[k]; strings.TrimSpace(value) != "" {
				return value, true
			}
		}
	}
	return "", false
}

// HasTag reports whether the item carries the tag, compared case-insensitively.
func (i Item) HasTag(tag string) bool {
	for _, existing := range i.Tags {
		if strings.EqualFold(existing, tag) {
			return true
		}
	}
	return false
}

// ItemsQuery describes a catalog listing request.
type ItemsQuery struct {
	Kinds      []string
	Tag        string
	NameFilter string
	StartIndex int
	Limit      int
}

// ItemsResult is a page of catalog items plus the unpaged total.
type ItemsResult struct {
	Items []Item
	Total int
}
