package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mmcdole/cookie/internal/domain"
	"github.com/mmcdole/cookie/internal/paging"
	"github.com/mmcdole/cookie/internal/search"
)

// SearchQuery is the selection of a search listing. Changing the tab or the
// keyword starts the listing over.
type SearchQuery struct {
	Type    domain.SearchType
	Keyword string
}

// Blank reports whether the keyword is empty, in which case the box office
// is shown instead of results
func (q SearchQuery) Blank() bool {
	return strings.TrimSpace(q.Keyword) == ""
}

// SearchLoader accumulates search results
type SearchLoader = paging.Loader[domain.Movie, SearchQuery]

// SearchService handles keyword search and the box-office list
type SearchService struct {
	repo     domain.SearchRepository
	cache    domain.CacheStore
	logger   *slog.Logger
	pageSize int
}

// NewSearchService creates a new search service. cache may be nil.
func NewSearchService(repo domain.SearchRepository, cache domain.CacheStore, pageSize int, logger *slog.Logger) *SearchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchService{
		repo:     repo,
		cache:    cache,
		logger:   logger,
		pageSize: pageSize,
	}
}

// NewLoader creates a results loader starting at the given query
func (s *SearchService) NewLoader(query SearchQuery) *SearchLoader {
	return paging.New("search", s.pageSize, query, s.fetchPage, paging.SlogReporter{Logger: s.logger})
}

func (s *SearchService) fetchPage(ctx context.Context, t paging.Ticket[SearchQuery]) (paging.Page[domain.Movie], error) {
	q := t.Selection
	if q.Blank() {
		// Nothing to page through for an empty keyword
		return paging.Page[domain.Movie]{Last: true}, nil
	}

	s.logger.Debug("searching", "type", q.Type, "keyword", q.Keyword, "page", t.Cursor)

	movies, last, err := s.repo.Search(ctx, q.Type, strings.TrimSpace(q.Keyword), domain.PageRequest{Page: t.Cursor, Size: t.Size})
	if err != nil {
		return paging.Page[domain.Movie]{}, err
	}

	s.logger.Debug("search complete", "keyword", q.Keyword, "page", t.Cursor, "results", len(movies), "last", last)
	return paging.Page[domain.Movie]{Items: movies, Last: last}, nil
}

// BoxOffice returns the default top list, served from cache while fresh
func (s *SearchService) BoxOffice(ctx context.Context) ([]domain.Movie, error) {
	if s.cache != nil {
		if movies, ok := s.cache.GetBoxOffice(); ok {
			s.logger.Debug("cache hit", "key", "boxoffice")
			return movies, nil
		}
	}

	movies, err := s.repo.BoxOffice(ctx)
	if err != nil {
		s.logger.Error("failed to get box office", "error", err)
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SaveBoxOffice(movies); err != nil {
			s.logger.Warn("failed to cache box office", "error", err)
		}
	}
	s.logger.Info("loaded box office", "count", len(movies))
	return movies, nil
}

// Pick runs a single-page search and ranks the results against the keyword.
// The match-up picker uses it to offer candidates.
func (s *SearchService) Pick(ctx context.Context, keyword string) ([]domain.Movie, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, nil
	}
	movies, _, err := s.repo.Search(ctx, domain.SearchMovie, keyword, domain.PageRequest{Page: 0, Size: s.size()})
	if err != nil {
		return nil, err
	}
	return search.RankMovies(keyword, movies), nil
}

func (s *SearchService) size() int {
	if s.pageSize <= 0 {
		return paging.DefaultPageSize
	}
	return s.pageSize
}
