package search

import (
	"testing"

	"github.com/mmcdole/cookie/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func matchedIndexes(matches []Match) []int {
	out := make([]int, len(matches))
	for i, m := range matches {
		out[i] = m.Index
	}
	return out
}

func TestFilterTitles(t *testing.T) {
	titles := []string{"Aliens", "Parasite", "Alien"}

	got := matchedIndexes(FilterTitles("ALIEN", titles))
	assert.ElementsMatch(t, []int{0, 2}, got)

	got = matchedIndexes(FilterTitles("prst", titles))
	assert.Equal(t, []int{1}, got)

	assert.Empty(t, FilterTitles("zzz", titles))
	assert.Nil(t, FilterTitles("  ", titles))
	assert.Nil(t, FilterTitles("a", nil))
}

func TestFilterReportsMatchedIndexes(t *testing.T) {
	matches := FilterTitles("her", []string{"Her"})
	require.Len(t, matches, 1)
	assert.Equal(t, []int{0, 1, 2}, matches[0].MatchedIndexes)
}

func TestApply(t *testing.T) {
	reviews := []domain.Review{
		{ID: 1, User: domain.ReviewAuthor{Nickname: "neo"}},
		{ID: 2, User: domain.ReviewAuthor{Nickname: "trinity"}},
	}
	byName := func(r domain.Review) string { return r.User.Nickname }

	got := Apply("trin", reviews, byName)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)

	assert.Equal(t, reviews, Apply("", reviews, byName))
}

func TestRankMovies(t *testing.T) {
	movies := []domain.Movie{
		{ID: 1, Title: "The Dark Knight Rises"},
		{ID: 2, Title: "Dunkirk"},
		{ID: 3, Title: "The Dark Knight"},
		{ID: 4, Title: "Dark"},
	}

	ranked := RankMovies("dark", movies)
	ids := make([]int64, len(ranked))
	for i, m := range ranked {
		ids[i] = m.ID
	}
	// exact, then contains (stable), then the rest
	assert.Equal(t, []int64{4, 1, 3, 2}, ids)

	assert.Equal(t, movies, RankMovies("", movies))
	assert.Empty(t, RankMovies("x", nil))
}

func TestMatchScore(t *testing.T) {
	assert.Equal(t, 0, matchScore("her", "her"))
	assert.Equal(t, 10, matchScore("heretic", "her"))
	assert.Equal(t, 50, matchScore("the hero", "her"))
	assert.Equal(t, 75, matchScore("hi there", "htr"))
	assert.Greater(t, matchScore("alien", "zzz"), 100)
}

func TestClosestTitle(t *testing.T) {
	titles := []string{"Interstellar", "Inception", "Insomnia"}
	assert.Equal(t, 1, ClosestTitle("incep", titles))
	assert.Equal(t, -1, ClosestTitle("zzz", titles))
}
