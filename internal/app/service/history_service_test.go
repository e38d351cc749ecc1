package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"catalog-search-service/internal/domain"
)

// fakeRepo is an in-memory domain.SearchRepository.
type fakeRepo struct {
	searches   []*domain.SavedSearch
	lastCutoff time.Time
}

func (r *fakeRepo) Save(_ context.Context, search *domain.SavedSearch) error {
	r.searches = append(r.searches, search)
	return nil
}

func (r *fakeRepo) RecentForSession(_ context.Context, sessionID string, limit int) ([]*domain.SavedSearch, error) {
	var out []*domain.SavedSearch
	for i := len(r.searches) - 1; i >= 0 && len(out) < limit; i-- {
		if r.searches[i].SessionID == sessionID {
			out = append(out, r.searches[i])
		}
	}
	return out, nil
}

func (r *fakeRepo) CountForSession(_ context.Context, sessionID string) (int64, error) {
	var count int64
	for _, s := range r.searches {
		if s.SessionID == sessionID {
			count++
		}
	}
	return count, nil
}

func (r *fakeRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.lastCutoff = cutoff
	kept := r.searches[:0]
	var deleted int64
	for _, s := range r.searches {
		if s.CreatedAt.Before(cutoff) {
			deleted++
		} else {
			kept = append(kept, s)
		}
	}
	r.searches = kept
	return deleted, nil
}

// fakeCache is an in-memory domain.Cache.
type fakeCache struct {
	data map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	return c.data[key], nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *fakeCache) Clear(_ context.Context) error {
	c.data = make(map[string][]byte)
	return nil
}

func TestHistoryService_SaveAndRecent(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewHistoryService(repo, nil, time.Minute, zap.NewNop())
	ctx := context.Background()

	saved, err := svc.Save(ctx, "session-1", map[string]any{"q": "cats"})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)

	searches, err := svc.Recent(ctx, "session-1", 0)
	require.NoError(t, err)
	require.Len(t, searches, 1)
	assert.Equal(t, "cats", searches[0].QueryParams["q"])
}

func TestHistoryService_RecentUsesCache(t *testing.T) {
	repo := &fakeRepo{}
	cache := newFakeCache()
	svc := NewHistoryService(repo, cache, time.Minute, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Save(ctx, "session-1", map[string]any{"q": "cats"})
	require.NoError(t, err)

	// first read populates the cache
	first, err := svc.Recent(ctx, "session-1", DefaultRecentLimit)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.NotEmpty(t, cache.data)

	// repository changes behind the cache are not observed until invalidation
	repo.searches = nil
	second, err := svc.Recent(ctx, "session-1", DefaultRecentLimit)
	require.NoError(t, err)
	assert.Len(t, second, 1)
}

func TestHistoryService_SaveInvalidatesCache(t *testing.T) {
	repo := &fakeRepo{}
	cache := newFakeCache()
	svc := NewHistoryService(repo, cache, time.Minute, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Save(ctx, "session-1", map[string]any{"q": "cats"})
	require.NoError(t, err)

	_, err = svc.Recent(ctx, "session-1", DefaultRecentLimit)
	require.NoError(t, err)
	require.NotEmpty(t, cache.data)

	_, err = svc.Save(ctx, "session-1", map[string]any{"q": "dogs"})
	require.NoError(t, err)

	searches, err := svc.Recent(ctx, "session-1", DefaultRecentLimit)
	require.NoError(t, err)
	assert.Len(t, searches, 2, "cache was invalidated by the save")
}

func TestHistoryService_NonDefaultLimitBypassesCache(t *testing.T) {
	repo := &fakeRepo{}
	cache := newFakeCache()
	svc := NewHistoryService(repo, cache, time.Minute, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Save(ctx, "session-1", map[string]any{"q": "cats"})
	require.NoError(t, err)

	_, err = svc.Recent(ctx, "session-1", 3)
	require.NoError(t, err)
	assert.Empty(t, cache.data, "only the default-limit list is cached")
}

func TestHistoryService_PruneOlderThan(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewHistoryService(repo, nil, time.Minute, zap.NewNop())
	ctx := context.Background()

	old := domain.NewSavedSearch("session-1", map[string]any{"q": "old"})
	old.CreatedAt = time.Now().UTC().Add(-72 * time.Hour)
	require.NoError(t, repo.Save(ctx, old))

	_, err := svc.Save(ctx, "session-1", map[string]any{"q": "new"})
	require.NoError(t, err)

	deleted, err := svc.PruneOlderThan(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	count, err := svc.Count(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
