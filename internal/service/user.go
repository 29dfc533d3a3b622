package service

import (
	"context"
	"log/slog"
	"slices"

	"github.com/mmcdole/cookie/internal/domain"
	"github.com/mmcdole/cookie/internal/paging"
)

// LikedLoader accumulates the liked-movie list. It has no selection.
type LikedLoader = paging.Loader[domain.LikedMovie, struct{}]

// UserService handles the signed-in user's lists
type UserService struct {
	repo     domain.UserRepository
	cache    domain.CacheStore
	logger   *slog.Logger
	pageSize int
}

// NewUserService creates a new user service. cache may be nil.
func NewUserService(repo domain.UserRepository, cache domain.CacheStore, pageSize int, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{repo: repo, cache: cache, logger: logger, pageSize: pageSize}
}

// NewLikedLoader creates a liked-movies loader
func (s *UserService) NewLikedLoader() *LikedLoader {
	fetch := func(ctx context.Context, t paging.Ticket[struct{}]) (paging.Page[domain.LikedMovie], error) {
		movies, totalPages, err := s.repo.LikedMovies(ctx, domain.PageRequest{Page: t.Cursor, Size: t.Size})
		if err != nil {
			return paging.Page[domain.LikedMovie]{}, err
		}
		return paging.Page[domain.LikedMovie]{Items: movies, TotalPages: totalPages}, nil
	}
	return paging.New("liked", s.pageSize, struct{}{}, fetch, paging.SlogReporter{Logger: s.logger})
}

// BadgeHistory returns the point/badge history, newest first. Events with
// equal timestamps keep server order.
func (s *UserService) BadgeHistory(ctx context.Context, refresh bool) ([]domain.BadgeEvent, error) {
	if s.cache != nil && !refresh {
		if events, ok := s.cache.GetBadgeHistory(); ok {
			s.logger.Debug("cache hit", "key", "badges")
			return events, nil
		}
	}

	events, err := s.repo.BadgeHistory(ctx)
	if err != nil {
		s.logger.Error("failed to get badge history", "error", err)
		return nil, err
	}

	events = SortBadgeEvents(events)
	if s.cache != nil {
		if err := s.cache.SaveBadgeHistory(events); err != nil {
			s.logger.Warn("failed to cache badge history", "error", err)
		}
	}
	return events, nil
}

// SortBadgeEvents returns a copy sorted by CreatedAt descending
func SortBadgeEvents(events []domain.BadgeEvent) []domain.BadgeEvent {
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b domain.BadgeEvent) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return sorted
}
