package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"catalog-search-service/internal/domain"
)

// DefaultRecentLimit is the number of recent searches returned (and cached)
// when the caller does not ask for a specific amount.
const DefaultRecentLimit = 10

// HistoryService records executed searches per session and serves recent
// ones, with an optional cache in front of the repository.
type HistoryService struct {
	repo   domain.SearchRepository
	cache  domain.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewHistoryService creates a new HistoryService. cache may be nil.
func NewHistoryService(repo domain.SearchRepository, cache domain.Cache, ttl time.Duration, logger *zap.Logger) *HistoryService {
	return &HistoryService{
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// Save records one executed search for a session.
func (s *HistoryService) Save(ctx context.Context, sessionID string, params map[string]any) (*domain.SavedSearch, error) {
	search := domain.NewSavedSearch(sessionID, params)

	if err := s.repo.Save(ctx, search); err != nil {
		s.logger.Error("saving search failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}

	if s.cache != nil {
		// drop the stale recent list; next read repopulates it
		_ = s.cache.Delete(ctx, recentKey(sessionID))
	}

	s.logger.Debug("search saved",
		zap.String("session_id", sessionID),
		zap.String("search_id", search.ID),
	)

	return search, nil
}

// Recent returns the newest saved searches for a session, most recent first.
// Only the default-limit list is cached.
func (s *HistoryService) Recent(ctx context.Context, sessionID string, limit int) ([]*domain.SavedSearch, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	cacheable := s.cache != nil && limit == DefaultRecentLimit

	if cacheable {
		if data, err := s.cache.Get(ctx, recentKey(sessionID)); err == nil && data != nil {
			var searches []*domain.SavedSearch
			if err := json.Unmarshal(data, &searches); err == nil {
				return searches, nil
			}
		}
	}

	searches, err := s.repo.RecentForSession(ctx, sessionID, limit)
	if err != nil {
		s.logger.Error("listing searches failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}

	if cacheable {
		if data, err := json.Marshal(searches); err == nil {
			_ = s.cache.Set(ctx, recentKey(sessionID), data, s.ttl)
		}
	}

	return searches, nil
}

// Count returns the number of saved searches for a session.
func (s *HistoryService) Count(ctx context.Context, sessionID string) (int64, error) {
	return s.repo.CountForSession(ctx, sessionID)
}

// PruneOlderThan deletes saved searches older than retention and returns how
// many were removed.
func (s *HistoryService) PruneOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)

	deleted, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("pruning searches failed", zap.Error(err))
		return 0, err
	}

	s.logger.Info("search history pruned",
		zap.Int64("deleted", deleted),
		zap.Time("cutoff", cutoff),
	)

	return deleted, nil
}

func recentKey(sessionID string) string {
	return "recent:" + sessionID
}
