package api

import (
	"strings"
	"time"

	"github.com/mmcdole/cookie/internal/domain"
)

// timestampLayouts are tried in order for server timestamps
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	time.DateTime,
	"2006-01-02-15:04:05",
	time.DateOnly,
}

// parseTimestamp parses a server timestamp, returning the zero time when no
// layout matches
func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// MapMovies converts movie DTOs to domain movies
func MapMovies(dtos []movieDTO) []domain.Movie {
	movies := make([]domain.Movie, 0, len(dtos))
	for _, d := range dtos {
		movies = append(movies, mapMovie(d))
	}
	return movies
}

func mapMovie(d movieDTO) domain.Movie {
	id := d.MovieID
	if id == 0 {
		id = d.ID
	}
	return domain.Movie{
		ID:          id,
		Title:       d.Title,
		Poster:      firstNonEmpty(d.Poster, d.PosterPath),
		ReleasedAt:  d.ReleasedAt,
		Country:     d.Country,
		Genre:       d.Genre,
		Runtime:     d.Runtime,
		Score:       d.Score,
		Likes:       d.Likes,
		Reviews:     d.Reviews,
		Rank:        d.Rank,
		ActorName:   d.ActorName,
		Director:    d.Director,
		Description: d.Plot,
	}
}

// MapReviews converts review DTOs to domain reviews
func MapReviews(dtos []reviewDTO) []domain.Review {
	reviews := make([]domain.Review, 0, len(dtos))
	for _, d := range dtos {
		r := domain.Review{
			ID:        d.ReviewID,
			Content:   d.Content,
			Score:     d.MovieScore,
			Likes:     d.ReviewLike,
			Comments:  d.Comments,
			Spoiler:   d.Spoiler,
			CreatedAt: d.CreatedAt,
		}
		if d.User != nil {
			r.User = domain.ReviewAuthor{
				Nickname:     d.User.Nickname,
				ProfileImage: d.User.ProfileImage,
				MainBadge:    d.User.MainBadgeImage,
			}
		}
		reviews = append(reviews, r)
	}
	return reviews
}

// MapLikedMovies converts liked-movie DTOs
func MapLikedMovies(dtos []likedMovieDTO) []domain.LikedMovie {
	movies := make([]domain.LikedMovie, 0, len(dtos))
	for _, d := range dtos {
		movies = append(movies, domain.LikedMovie{
			Title:      d.Title,
			Poster:     d.Poster,
			ReleasedAt: d.ReleasedAt,
			Country:    d.Country,
			Likes:      d.Likes,
			Reviews:    d.Reviews,
		})
	}
	return movies
}

// MapBadgeEvents converts badge history DTOs
func MapBadgeEvents(dtos []badgeEventDTO) []domain.BadgeEvent {
	events := make([]domain.BadgeEvent, 0, len(dtos))
	for _, d := range dtos {
		events = append(events, domain.BadgeEvent{
			Action:    d.Action,
			Badge:     d.BadgeName,
			Points:    d.Point,
			CreatedAt: parseTimestamp(d.CreatedAt),
		})
	}
	return events
}

// MapMatchUpSummaries converts match-up history DTOs
func MapMatchUpSummaries(dtos []matchUpSummaryDTO) []domain.MatchUpSummary {
	items := make([]domain.MatchUpSummary, 0, len(dtos))
	for _, d := range dtos {
		items = append(items, domain.MatchUpSummary{
			ID:      d.MatchUpID,
			Title:   d.MatchUpTitle,
			StartAt: parseTimestamp(d.StartAt),
			EndAt:   parseTimestamp(d.EndAt),
		})
	}
	return items
}

// MapMatchUp converts the admin match-up record
func MapMatchUp(d matchUpDTO) *domain.MatchUp {
	movies := d.MatchUpMovies
	if len(movies) == 0 {
		movies = d.MovieMatchInfo
	}

	m := &domain.MatchUp{
		ID:        d.MatchID,
		Title:     d.MatchUpTitle,
		Type:      domain.MatchUpType(strings.ToUpper(d.MatchUpType)),
		StartTime: d.StartTime,
		EndTime:   d.EndTime,
		Movies:    make([]domain.MatchUpMovie, 0, len(movies)),
	}
	for _, mv := range movies {
		m.Movies = append(m.Movies, domain.MatchUpMovie{
			ID:     mv.MovieID,
			Title:  firstNonEmpty(mv.MovieTitle, mv.Title),
			Poster: firstNonEmpty(mv.Poster, mv.PosterPath),
		})
	}
	return m
}
