package dto

import (
	"time"

	"catalog-search-service/internal/domain"
)

// StateResponse is the normalized snapshot of a search state together with
// the facts derived from it.
type StateResponse struct {
	Params         map[string]any      `json:"params"`
	Query          string              `json:"query,omitempty"`
	Filters        map[string][]string `json:"filters"`
	HasConstraints bool                `json:"has_constraints"`
}

// DerivedResponse carries the parameter set produced by a state mutation.
type DerivedResponse struct {
	Params map[string]any `json:"params"`
}

// DocumentURLResponse carries the resolved routing target for a document.
// Target is either a route descriptor map or the document echoed back when
// it cannot be routed.
type DocumentURLResponse struct {
	Target any `json:"target"`
}

// SavedSearchResponse represents one saved search.
type SavedSearchResponse struct {
	ID        string         `json:"id"`
	SessionID string         `json:"session_id"`
	Params    map[string]any `json:"params"`
	CreatedAt string         `json:"created_at"`
}

// FromSavedSearch converts a domain.SavedSearch to SavedSearchResponse.
func FromSavedSearch(s *domain.SavedSearch) SavedSearchResponse {
	return SavedSearchResponse{
		ID:        s.ID,
		SessionID: s.SessionID,
		Params:    s.QueryParams,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
	}
}

// HistoryResponse lists a session's recent saved searches.
type HistoryResponse struct {
	Searches []SavedSearchResponse `json:"searches"`
	Total    int64                 `json:"total"`
}

// FromSavedSearches converts a slice of saved searches.
func FromSavedSearches(searches []*domain.SavedSearch, total int64) HistoryResponse {
	resp := HistoryResponse{
		Searches: make([]SavedSearchResponse, len(searches)),
		Total:    total,
	}
	for i, s := range searches {
		resp.Searches[i] = FromSavedSearch(s)
	}

	return resp
}

// PruneResponse reports the outcome of a history prune.
type PruneResponse struct {
	Deleted int64 `json:"deleted"`
}

// HealthResponse represents health check response.
type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks,omitempty"`
	Timestamp string            `json:"timestamp"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}
