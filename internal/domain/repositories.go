package domain

import (
	"context"
)

// PageRequest addresses one page of a server listing
type PageRequest struct {
	Page int // zero-based
	Size int
}

// SearchRepository provides keyword search and the box-office default list
type SearchRepository interface {
	// Search returns one page of results and whether it is the last page
	Search(ctx context.Context, kind SearchType, keyword string, page PageRequest) ([]Movie, bool, error)

	// BoxOffice returns the default top list shown for an empty keyword
	BoxOffice(ctx context.Context) ([]Movie, error)
}

// ReviewRepository provides review feeds and review creation
type ReviewRepository interface {
	// MovieReviews returns one page of a movie's feed under the given filter
	MovieReviews(ctx context.Context, movieID int64, filter ReviewFilter, page PageRequest) (*ReviewFeed, error)

	// CreateReview submits a new review
	CreateReview(ctx context.Context, review NewReview) error
}

// UserRepository provides the signed-in user's lists
type UserRepository interface {
	// LikedMovies returns one page of liked movies and the server's total page count
	LikedMovies(ctx context.Context, page PageRequest) ([]LikedMovie, int, error)

	// BadgeHistory returns the full point/badge history
	BadgeHistory(ctx context.Context) ([]BadgeEvent, error)
}

// MatchUpRepository provides match-up history, admin editing and voting
type MatchUpRepository interface {
	MatchUpHistory(ctx context.Context) ([]MatchUpSummary, error)
	GetMatchUp(ctx context.Context, matchID int64) (*MatchUp, error)
	UpdateMatchUp(ctx context.Context, matchID int64, update MatchUpUpdate) error
	Vote(ctx context.Context, matchID, movieID int64, vote Vote) error
}

// Authenticator exchanges credentials for a session
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*Session, error)
}
