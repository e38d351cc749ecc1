package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"catalog-search-service/internal/domain"
)

// SavedSearchModel is the GORM model for the saved_searches table. The
// parameter snapshot is stored as JSONB since its key set is open-ended.
type SavedSearchModel struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	SessionID   string    `gorm:"type:varchar(100);not null;index"`
	QueryParams []byte    `gorm:"type:jsonb;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
}

// TableName returns the table name for SavedSearchModel.
func (SavedSearchModel) TableName() string {
	return "saved_searches"
}

// ToDomain converts SavedSearchModel to domain.SavedSearch.
func (m *SavedSearchModel) ToDomain() (*domain.SavedSearch, error) {
	var params map[string]any
	if len(m.QueryParams) > 0 {
		if err := json.Unmarshal(m.QueryParams, &params); err != nil {
			return nil, fmt.Errorf("decoding query params: %w", err)
		}
	}

	return &domain.SavedSearch{
		ID:          m.ID,
		SessionID:   m.SessionID,
		QueryParams: params,
		CreatedAt:   m.CreatedAt,
	}, nil
}

// FromDomain creates a SavedSearchModel from domain.SavedSearch.
func FromDomain(s *domain.SavedSearch) (*SavedSearchModel, error) {
	params, err := json.Marshal(s.QueryParams)
	if err != nil {
		return nil, fmt.Errorf("encoding query params: %w", err)
	}

	return &SavedSearchModel{
		ID:          s.ID,
		SessionID:   s.SessionID,
		QueryParams: params,
		CreatedAt:   s.CreatedAt,
	}, nil
}
