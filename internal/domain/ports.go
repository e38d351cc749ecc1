package domain

import (
	"context"
	"time"
)

// SearchRepository defines the interface for saved-search persistence.
// Implementation: internal/infra/postgres/repository.go
type SearchRepository interface {
	// Save persists one saved search.
	Save(ctx context.Context, search *SavedSearch) error

	// RecentForSession returns the newest saved searches for a session,
	// most recent first.
	RecentForSession(ctx context.Context, sessionID string, limit int) ([]*SavedSearch, error)

	// CountForSession returns the number of saved searches for a session.
	CountForSession(ctx context.Context, sessionID string) (int64, error)

	// DeleteOlderThan removes saved searches created before cutoff and
	// returns how many were deleted.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Cache defines the interface for caching operations.
// Implementation: internal/infra/redis/cache.go
type Cache interface {
	// Get retrieves a value by key. Returns nil if not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// Clear removes all cached values.
	Clear(ctx context.Context) error
}
