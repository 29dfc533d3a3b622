// Package search filters and ranks rows that are already loaded.
// Server-side search lives in the api and service packages.
package search

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Match is a filter hit
type Match struct {
	Index          int   // Index in source slice
	Score          int   // Higher is better
	MatchedIndexes []int // Character positions that matched (for highlighting)
}

// Index implements fuzzy.Source over pre-lowercased titles
type Index struct {
	lowerTitles []string
}

// NewIndex builds an index over titles
func NewIndex(titles []string) *Index {
	lower := make([]string, len(titles))
	for i, t := range titles {
		lower[i] = strings.ToLower(t)
	}
	return &Index{lowerTitles: lower}
}

// String returns the lowercase title at index i (implements fuzzy.Source)
func (idx *Index) String(i int) string { return idx.lowerTitles[i] }

// Len returns the number of titles (implements fuzzy.Source)
func (idx *Index) Len() int { return len(idx.lowerTitles) }

// Filter returns the titles matching query, best first. An empty query
// matches nothing.
func (idx *Index) Filter(query string) []Match {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || idx.Len() == 0 {
		return nil
	}

	found := fuzzy.FindFrom(query, idx)
	matches := make([]Match, len(found))
	for i, m := range found {
		matches[i] = Match{
			Index:          m.Index,
			Score:          m.Score,
			MatchedIndexes: m.MatchedIndexes,
		}
	}
	return matches
}

// FilterTitles is a one-shot Filter over titles
func FilterTitles(query string, titles []string) []Match {
	return NewIndex(titles).Filter(query)
}

// Apply returns the items whose title matches query, in match order.
// An empty query returns items unchanged.
func Apply[T any](query string, items []T, title func(T) string) []T {
	if strings.TrimSpace(query) == "" {
		return items
	}
	titles := make([]string, len(items))
	for i, it := range items {
		titles[i] = title(it)
	}
	matches := FilterTitles(query, titles)
	out := make([]T, 0, len(matches))
	for _, m := range matches {
		out = append(out, items[m.Index])
	}
	return out
}
