package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"catalog-search-service/internal/domain"
)

// Repository implements domain.SearchRepository using PostgreSQL.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Save persists one saved search.
func (r *Repository) Save(ctx context.Context, search *domain.SavedSearch) error {
	model, err := FromDomain(search)
	if err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("saving search: %w", err)
	}

	search.CreatedAt = model.CreatedAt
	return nil
}

// RecentForSession returns the newest saved searches for a session.
func (r *Repository) RecentForSession(ctx context.Context, sessionID string, limit int) ([]*domain.SavedSearch, error) {
	var models []SavedSearchModel
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("listing searches: %w", err)
	}

	searches := make([]*domain.SavedSearch, 0, len(models))
	for i := range models {
		search, err := models[i].ToDomain()
		if err != nil {
			return nil, err
		}
		searches = append(searches, search)
	}

	return searches, nil
}

// CountForSession returns the number of saved searches for a session.
func (r *Repository) CountForSession(ctx context.Context, sessionID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&SavedSearchModel{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting searches: %w", err)
	}

	return count, nil
}

// DeleteOlderThan removes saved searches created before cutoff.
func (r *Repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&SavedSearchModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("deleting old searches: %w", result.Error)
	}

	return result.RowsAffected, nil
}
