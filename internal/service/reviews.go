package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmcdole/cookie/internal/domain"
	"github.com/mmcdole/cookie/internal/paging"
)

// FeedHeader is the movie information that comes back with every feed page.
// It does not depend on the filter, so a stale page may refresh it too.
type FeedHeader struct {
	MovieID int64
	Title   string
	Poster  string
}

// ReviewFeed is the review listing of one movie. The selection is the
// filter/sort pair; the header is refreshed from each response.
type ReviewFeed struct {
	*paging.Loader[domain.Review, domain.ReviewFilter]

	movieID int64
	mu      sync.RWMutex
	header  FeedHeader
}

// Header returns the latest movie header
func (f *ReviewFeed) Header() FeedHeader {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.header
}

// MovieID returns the movie this feed belongs to
func (f *ReviewFeed) MovieID() int64 {
	return f.movieID
}

// ReviewService handles review feeds and review creation
type ReviewService struct {
	repo     domain.ReviewRepository
	logger   *slog.Logger
	pageSize int
}

// NewReviewService creates a new review service
func NewReviewService(repo domain.ReviewRepository, pageSize int, logger *slog.Logger) *ReviewService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewService{repo: repo, logger: logger, pageSize: pageSize}
}

// NewFeed creates a feed loader for a movie
func (s *ReviewService) NewFeed(movieID int64, filter domain.ReviewFilter) *ReviewFeed {
	if filter.Sort == "" {
		filter.Sort = domain.SortLatest
	}
	feed := &ReviewFeed{movieID: movieID, header: FeedHeader{MovieID: movieID}}

	fetch := func(ctx context.Context, t paging.Ticket[domain.ReviewFilter]) (paging.Page[domain.Review], error) {
		s.logger.Debug("loading reviews", "movie", movieID, "spoiler", t.Selection.SpoilerOnly,
			"sort", t.Selection.Sort, "page", t.Cursor)

		resp, err := s.repo.MovieReviews(ctx, movieID, t.Selection, domain.PageRequest{Page: t.Cursor, Size: t.Size})
		if err != nil {
			return paging.Page[domain.Review]{}, err
		}

		feed.mu.Lock()
		feed.header = FeedHeader{MovieID: movieID, Title: resp.Title, Poster: resp.Poster}
		feed.mu.Unlock()

		return paging.Page[domain.Review]{Items: resp.Reviews, TotalPages: resp.TotalPages}, nil
	}

	name := fmt.Sprintf("reviews:%d", movieID)
	feed.Loader = paging.New(name, s.pageSize, filter, fetch, paging.SlogReporter{Logger: s.logger})
	return feed
}

// Create submits a new review
func (s *ReviewService) Create(ctx context.Context, review domain.NewReview) error {
	if err := s.repo.CreateReview(ctx, review); err != nil {
		s.logger.Error("failed to create review", "movie", review.MovieID, "error", err)
		return err
	}
	s.logger.Info("review created", "movie", review.MovieID, "score", review.Score)
	return nil
}
