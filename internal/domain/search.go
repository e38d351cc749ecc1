// Package domain contains the core business entities and ports.
// This package has no external dependencies beyond uuid generation.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// SavedSearch is one executed search recorded for a session. QueryParams
// holds the canonical parameter snapshot the search was run with, so the
// search can be re-linked or re-run later.
type SavedSearch struct {
	ID          string         `json:"id"`
	SessionID   string         `json:"session_id"`
	QueryParams map[string]any `json:"query_params"`
	CreatedAt   time.Time      `json:"created_at"`
}

// NewSavedSearch creates a SavedSearch with a generated ID and timestamp.
func NewSavedSearch(sessionID string, queryParams map[string]any) *SavedSearch {
	return &SavedSearch{
		ID:          uuid.NewString(),
		SessionID:   sessionID,
		QueryParams: queryParams,
		CreatedAt:   time.Now().UTC(),
	}
}
