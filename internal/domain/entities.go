package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// SearchType selects which field the search endpoint matches the keyword against
type SearchType string

const (
	SearchMovie    SearchType = "movie"
	SearchActor    SearchType = "actor"
	SearchDirector SearchType = "director"
)

// SearchTypes returns the search tabs in display order
func SearchTypes() []SearchType {
	return []SearchType{SearchMovie, SearchActor, SearchDirector}
}

// ParseSearchType converts a user-supplied string into a SearchType
func ParseSearchType(s string) (SearchType, error) {
	switch SearchType(strings.ToLower(strings.TrimSpace(s))) {
	case SearchMovie, "":
		return SearchMovie, nil
	case SearchActor:
		return SearchActor, nil
	case SearchDirector:
		return SearchDirector, nil
	default:
		return "", fmt.Errorf("%w: search type %q", ErrInvalidInput, s)
	}
}

// Label returns the tab label for the search type
func (t SearchType) Label() string {
	switch t {
	case SearchActor:
		return "Actor"
	case SearchDirector:
		return "Director"
	default:
		return "Movie"
	}
}

// ReviewSort orders a review feed
type ReviewSort string

const (
	SortLatest  ReviewSort = "latest"
	SortPopular ReviewSort = "popular"
)

// ParseReviewSort converts a user-supplied string into a ReviewSort
func ParseReviewSort(s string) (ReviewSort, error) {
	switch ReviewSort(strings.ToLower(strings.TrimSpace(s))) {
	case SortLatest, "":
		return SortLatest, nil
	case SortPopular:
		return SortPopular, nil
	default:
		return "", fmt.Errorf("%w: review sort %q", ErrInvalidInput, s)
	}
}

// ReviewFilter is the selection that drives a review feed's server-side results.
// Changing any field invalidates the accumulated feed.
type ReviewFilter struct {
	SpoilerOnly bool
	Sort        ReviewSort
}

// Movie is a search result or box-office entry
type Movie struct {
	ID          int64   `json:"movieId"`
	Title       string  `json:"title"`
	Poster      string  `json:"poster"`
	ReleasedAt  string  `json:"releasedAt,omitempty"`
	Country     string  `json:"country,omitempty"`
	Genre       string  `json:"genre,omitempty"`
	Runtime     string  `json:"runtime,omitempty"`
	Score       float64 `json:"score,omitempty"`
	Likes       int     `json:"likes,omitempty"`
	Reviews     int     `json:"reviews,omitempty"`
	Rank        int     `json:"rank,omitempty"`
	ActorName   string  `json:"actorName,omitempty"`
	Director    string  `json:"director,omitempty"`
	Description string  `json:"plot,omitempty"`
}

// Year returns the release year taken from ReleasedAt, or "" when unknown
func (m Movie) Year() string {
	if len(m.ReleasedAt) >= 4 {
		return m.ReleasedAt[:4]
	}
	return ""
}

// ReviewAuthor is the user block embedded in a review
type ReviewAuthor struct {
	Nickname     string `json:"nickname"`
	ProfileImage string `json:"profileImage"`
	MainBadge    string `json:"mainBadgeImage"`
}

// DisplayName returns the nickname or "Anonymous"
func (a ReviewAuthor) DisplayName() string {
	if a.Nickname == "" {
		return "Anonymous"
	}
	return a.Nickname
}

// Review is one entry of a movie's review feed
type Review struct {
	ID        int64        `json:"reviewId"`
	Content   string       `json:"content"`
	Score     float64      `json:"movieScore"`
	Likes     int          `json:"reviewLike"`
	Comments  int          `json:"comments"`
	Spoiler   bool         `json:"spoiler"`
	CreatedAt string       `json:"createdAt,omitempty"`
	User      ReviewAuthor `json:"user"`
}

// ReviewPreviewLength is the number of runes of review content shown in feeds
const ReviewPreviewLength = 100

// Preview returns the content truncated for feed display
func (r Review) Preview() string {
	return Truncate(r.Content, ReviewPreviewLength)
}

// RoundedScore returns the score rounded to the nearest whole point
func (r Review) RoundedScore() int {
	return int(r.Score + 0.5)
}

// ReviewFeed is the header and first page of a movie's review listing
type ReviewFeed struct {
	MovieID    int64
	Title      string
	Poster     string
	TotalPages int
	Reviews    []Review
}

// LikedMovie is an entry of the user's liked-movie list
type LikedMovie struct {
	Title      string `json:"title"`
	Poster     string `json:"poster"`
	ReleasedAt string `json:"releasedAt"`
	Country    string `json:"country"`
	Likes      int    `json:"likes"`
	Reviews    int    `json:"reviews"`
}

// BadgeEvent is an entry in the user's point/badge history
type BadgeEvent struct {
	Action    string    `json:"action"`
	Badge     string    `json:"badgeName,omitempty"`
	Points    int       `json:"point"`
	CreatedAt time.Time `json:"createdAt"`
}

// MatchUpType is the category of a match-up
type MatchUpType string

const (
	MatchUpUnset MatchUpType = ""
	MatchUpShow  MatchUpType = "SHOW"
	MatchUpGenre MatchUpType = "GENRE"
)

// ParseMatchUpType converts a user-supplied string into a MatchUpType
func ParseMatchUpType(s string) (MatchUpType, error) {
	switch MatchUpType(strings.ToUpper(strings.TrimSpace(s))) {
	case MatchUpUnset:
		return MatchUpUnset, nil
	case MatchUpShow:
		return MatchUpShow, nil
	case MatchUpGenre:
		return MatchUpGenre, nil
	default:
		return "", fmt.Errorf("%w: match-up type %q", ErrInvalidInput, s)
	}
}

// MatchUpMovie is one side of a match-up
type MatchUpMovie struct {
	ID     int64  `json:"movieId,omitempty"`
	Title  string `json:"movieTitle"`
	Poster string `json:"poster"`
}

// MatchUp is the admin view of a head-to-head record.
// StartTime and EndTime keep the server's wire representation.
type MatchUp struct {
	ID        int64          `json:"matchId"`
	Title     string         `json:"matchUpTitle"`
	Type      MatchUpType    `json:"matchUpType"`
	StartTime string         `json:"startTime"`
	EndTime   string         `json:"endTime"`
	Movies    []MatchUpMovie `json:"matchUpMovies"`
}

// MatchUpSummary is an entry of the match-up history list
type MatchUpSummary struct {
	ID      int64     `json:"matchUpId"`
	Title   string    `json:"matchUpTitle"`
	StartAt time.Time `json:"startAt"`
	EndAt   time.Time `json:"endAt"`
}

// String renders the summary the way the history list shows it
func (s MatchUpSummary) String() string {
	return fmt.Sprintf("%d. %s (%s ~ %s)", s.ID, s.Title,
		s.StartAt.UTC().Format(time.DateOnly), s.EndAt.UTC().Format(time.DateOnly))
}

// MatchUpUpdate is the payload sent when an admin saves a match-up
type MatchUpUpdate struct {
	Title     string         `json:"matchTitle"`
	Movies    []MatchUpMovie `json:"matchUpMovies"`
	Type      MatchUpType    `json:"matchUpType"`
	StartTime string         `json:"startTime"`
	EndTime   string         `json:"endTime"`
}

// Vote is the payload of a match-up vote; every known tag maps to 0 or 1
type Vote struct {
	CharmPoint   map[string]int `json:"charmPoint"`
	EmotionPoint map[string]int `json:"emotionPoint"`
}

// NewReview is the payload of a review submission
type NewReview struct {
	MovieID int64  `json:"movieId"`
	Score   int    `json:"movieScore"`
	Content string `json:"content"`
	Spoiler bool   `json:"isSpoiler"`
}

// Session is the result of a successful login
type Session struct {
	AccessToken  string
	RefreshToken string
	Nickname     string
	Admin        bool
}

// Truncate shortens s to at most n runes, appending "..." when cut
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
