package search

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/cookie/internal/domain"
)

// RankMovies orders server results by how well their titles match query.
// Lower score is better; ties keep server order.
func RankMovies(query string, movies []domain.Movie) []domain.Movie {
	if len(movies) == 0 {
		return movies
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return movies
	}

	type rankedMovie struct {
		movie domain.Movie
		score int
	}

	ranked := make([]rankedMovie, 0, len(movies))
	for _, m := range movies {
		ranked = append(ranked, rankedMovie{movie: m, score: matchScore(strings.ToLower(m.Title), query)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score < ranked[j].score
	})

	results := make([]domain.Movie, len(ranked))
	for i, r := range ranked {
		results[i] = r.movie
	}
	return results
}

// matchScore calculates a match score for ranking. Lower score = better match.
func matchScore(title, query string) int {
	if title == query {
		return 0
	}
	if strings.HasPrefix(title, query) {
		return 10
	}
	if strings.Contains(title, query) {
		return 50
	}
	if fuzzy.MatchFold(query, title) {
		return 75
	}
	return 100 + fuzzy.LevenshteinDistance(query, title)
}

// ClosestTitle returns the index of the title closest to query, or -1
func ClosestTitle(query string, titles []string) int {
	ranks := fuzzy.RankFindFold(query, titles)
	if len(ranks) == 0 {
		return -1
	}
	sort.Stable(ranks)
	return ranks[0].OriginalIndex
}
