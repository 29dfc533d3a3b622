package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mmcdole/cookie/internal/domain"
)

func pageQuery(page domain.PageRequest) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page.Page))
	q.Set("size", strconv.Itoa(page.Size))
	return q
}

// Search returns one page of keyword results. The last-page flag is read from
// the top-level "last" field.
func (c *Client) Search(ctx context.Context, kind domain.SearchType, keyword string, page domain.PageRequest) ([]domain.Movie, bool, error) {
	q := pageQuery(page)
	q.Set("type", string(kind))
	q.Set("keyword", keyword)

	root, err := c.getEnvelope(ctx, "/api/search", q)
	if err != nil {
		return nil, false, err
	}

	arr, err := listPayload(root, "search", "response.content", "response", "content")
	if err != nil {
		return nil, false, err
	}
	dtos, err := decodeList[movieDTO](arr)
	if err != nil {
		return nil, false, err
	}
	return MapMovies(dtos), firstBool(root, "last", "response.last"), nil
}

// BoxOffice returns the default top list for an empty search
func (c *Client) BoxOffice(ctx context.Context) ([]domain.Movie, error) {
	root, err := c.getEnvelope(ctx, "/api/search/default", nil)
	if err != nil {
		return nil, err
	}
	arr, err := listPayload(root, "box office", "response")
	if err != nil {
		return nil, err
	}
	dtos, err := decodeList[movieDTO](arr)
	if err != nil {
		return nil, err
	}
	return MapMovies(dtos), nil
}

// ReviewFeedPath builds the feed endpoint for a filter
func ReviewFeedPath(movieID int64, filter domain.ReviewFilter) string {
	var b strings.Builder
	fmt.Fprintf(&b, "/api/movies/%d/reviews", movieID)
	if filter.SpoilerOnly {
		b.WriteString("/spoiler")
	}
	if filter.Sort == domain.SortPopular {
		b.WriteString("/most-liked")
	}
	return b.String()
}

// MovieReviews returns one page of a movie's review feed
func (c *Client) MovieReviews(ctx context.Context, movieID int64, filter domain.ReviewFilter, page domain.PageRequest) (*domain.ReviewFeed, error) {
	root, err := c.getEnvelope(ctx, ReviewFeedPath(movieID, filter), pageQuery(page))
	if err != nil {
		return nil, err
	}

	payload := root.Get("response")
	if !payload.IsObject() {
		return nil, fmt.Errorf("%w: review feed has no response object", domain.ErrMalformedResponse)
	}

	feed := &domain.ReviewFeed{
		MovieID:    movieID,
		Title:      payload.Get("title").Str,
		Poster:     payload.Get("poster").Str,
		TotalPages: firstInt(root, "response.totalReviewPages", "response.totalPages", "totalPages"),
	}
	if arr, ok := firstArray(payload, "reviews"); ok {
		dtos, err := decodeList[reviewDTO](arr)
		if err != nil {
			return nil, err
		}
		feed.Reviews = MapReviews(dtos)
	}
	return feed, nil
}

// CreateReview submits a review for a movie
func (c *Client) CreateReview(ctx context.Context, review domain.NewReview) error {
	path := fmt.Sprintf("/api/movies/%d/reviews", review.MovieID)
	_, err := c.doRequest(ctx, http.MethodPost, path, nil, review)
	return err
}

// LikedMovies returns one page of the user's liked movies and the total page count
func (c *Client) LikedMovies(ctx context.Context, page domain.PageRequest) ([]domain.LikedMovie, int, error) {
	root, err := c.getEnvelope(ctx, "/api/users/likedMovieList", pageQuery(page))
	if err != nil {
		return nil, 0, err
	}

	arr, ok := firstArray(root, "response.movies")
	if !ok {
		return nil, 0, fmt.Errorf("%w: liked movie list has no movies array", domain.ErrMalformedResponse)
	}
	dtos, err := decodeList[likedMovieDTO](arr)
	if err != nil {
		return nil, 0, err
	}
	return MapLikedMovies(dtos), firstInt(root, "response.totalPages", "totalPages"), nil
}

// BadgeHistory returns the user's point/badge history in server order
func (c *Client) BadgeHistory(ctx context.Context) ([]domain.BadgeEvent, error) {
	root, err := c.getEnvelope(ctx, "/api/users/badgeHistory", nil)
	if err != nil {
		return nil, err
	}
	arr, err := listPayload(root, "badge history", "response")
	if err != nil {
		return nil, err
	}
	dtos, err := decodeList[badgeEventDTO](arr)
	if err != nil {
		return nil, err
	}
	return MapBadgeEvents(dtos), nil
}

// MatchUpHistory returns past match-ups
func (c *Client) MatchUpHistory(ctx context.Context) ([]domain.MatchUpSummary, error) {
	root, err := c.getEnvelope(ctx, "/api/matchups/history", nil)
	if err != nil {
		return nil, err
	}
	arr, err := listPayload(root, "match-up history", "response")
	if err != nil {
		return nil, err
	}
	dtos, err := decodeList[matchUpSummaryDTO](arr)
	if err != nil {
		return nil, err
	}
	return MapMatchUpSummaries(dtos), nil
}

// GetMatchUp returns the admin record of a match-up
func (c *Client) GetMatchUp(ctx context.Context, matchID int64) (*domain.MatchUp, error) {
	root, err := c.getEnvelope(ctx, fmt.Sprintf("/api/admin/match-up/%d", matchID), nil)
	if err != nil {
		return nil, err
	}
	dto, err := decodeObject[matchUpDTO](root, "response")
	if err != nil {
		return nil, err
	}
	m := MapMatchUp(*dto)
	if m.ID == 0 {
		m.ID = matchID
	}
	return m, nil
}

// UpdateMatchUp saves an edited match-up
func (c *Client) UpdateMatchUp(ctx context.Context, matchID int64, update domain.MatchUpUpdate) error {
	path := fmt.Sprintf("/api/admin/match-up/%d", matchID)
	_, err := c.doRequest(ctx, http.MethodPut, path, nil, update)
	return err
}

// Vote casts a ballot for one movie of a match-up. The call only counts as
// successful when the server answers "SUCCESS".
func (c *Client) Vote(ctx context.Context, matchID, movieID int64, vote domain.Vote) error {
	path := fmt.Sprintf("/api/matchups/%d/movies/%d/vote", matchID, movieID)
	body, err := c.doRequest(ctx, http.MethodPost, path, nil, vote)
	if err != nil {
		return err
	}
	root, err := parseEnvelope(body)
	if err != nil {
		return err
	}
	if got := root.Get("response").String(); got != "SUCCESS" {
		return fmt.Errorf("%w: vote answered %q", domain.ErrRejected, got)
	}
	return nil
}
