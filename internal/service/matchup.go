package service

import (
	"context"
	"log/slog"

	"github.com/mmcdole/cookie/internal/domain"
)

// MatchUpService handles match-up history, admin edits and voting
type MatchUpService struct {
	repo   domain.MatchUpRepository
	cache  domain.CacheStore
	logger *slog.Logger
}

// NewMatchUpService creates a new match-up service. cache may be nil.
func NewMatchUpService(repo domain.MatchUpRepository, cache domain.CacheStore, logger *slog.Logger) *MatchUpService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MatchUpService{repo: repo, cache: cache, logger: logger}
}

// History returns past match-ups, served from cache while fresh
func (s *MatchUpService) History(ctx context.Context) ([]domain.MatchUpSummary, error) {
	if s.cache != nil {
		if items, ok := s.cache.GetMatchUpHistory(); ok {
			s.logger.Debug("cache hit", "key", "matchups")
			return items, nil
		}
	}

	items, err := s.repo.MatchUpHistory(ctx)
	if err != nil {
		s.logger.Error("failed to get match-up history", "error", err)
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SaveMatchUpHistory(items); err != nil {
			s.logger.Warn("failed to cache match-up history", "error", err)
		}
	}
	return items, nil
}

// Get loads a match-up for editing
func (s *MatchUpService) Get(ctx context.Context, matchID int64) (*domain.MatchUp, error) {
	m, err := s.repo.GetMatchUp(ctx, matchID)
	if err != nil {
		s.logger.Error("failed to get match-up", "match", matchID, "error", err)
		return nil, err
	}
	return m, nil
}

// Update saves an edited match-up and drops the cached history
func (s *MatchUpService) Update(ctx context.Context, matchID int64, update domain.MatchUpUpdate) error {
	if err := s.repo.UpdateMatchUp(ctx, matchID, update); err != nil {
		s.logger.Error("failed to update match-up", "match", matchID, "error", err)
		return err
	}
	if s.cache != nil {
		s.cache.InvalidateAll()
	}
	s.logger.Info("match-up updated", "match", matchID, "title", update.Title)
	return nil
}

// Vote casts a ballot
func (s *MatchUpService) Vote(ctx context.Context, matchID, movieID int64, vote domain.Vote) error {
	if err := s.repo.Vote(ctx, matchID, movieID, vote); err != nil {
		s.logger.Error("vote failed", "match", matchID, "movie", movieID, "error", err)
		return err
	}
	s.logger.Info("vote cast", "match", matchID, "movie", movieID)
	return nil
}
