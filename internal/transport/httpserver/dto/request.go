// Package dto defines request and response shapes for the HTTP API.
package dto

import (
	"strings"

	"catalog-search-service/internal/searchstate"
)

// FacetMutationRequest carries the control parameters of a facet mutation.
// The remaining query parameters form the current search state.
type FacetMutationRequest struct {
	Field string   `query:"field" validate:"required,max=100"`
	Value string   `query:"value" validate:"max=500"`
	FQ    []string `query:"fq" validate:"dive,max=600"`
}

// ToFacetItem converts the request into the value handed to the state
// engine: a bare string for the common case, or a structured item when
// companion fq pairs ride along.
func (r *FacetMutationRequest) ToFacetItem() any {
	if len(r.FQ) == 0 {
		return r.Value
	}

	item := searchstate.FacetItem{Value: r.Value}
	for _, pair := range r.FQ {
		field, value, ok := strings.Cut(pair, ":")
		if !ok || field == "" {
			continue
		}
		item.FQ = append(item.FQ, searchstate.FieldValue{Field: field, Value: value})
	}

	return item
}

// SaveSearchRequest is the body of POST /searches.
type SaveSearchRequest struct {
	SessionID string         `json:"session_id" validate:"required,max=100"`
	Params    map[string]any `json:"params" validate:"required"`
}

// RecentSearchesRequest holds query parameters for GET /searches.
type RecentSearchesRequest struct {
	SessionID string `query:"session_id" validate:"required,max=100"`
	Limit     int    `query:"limit" validate:"min=0,max=100"`
}

// PruneRequest holds query parameters for DELETE /searches/old. Days of 0
// falls back to the configured retention.
type PruneRequest struct {
	Days int `query:"days" validate:"min=0,max=3650"`
}

// DocumentURLRequest holds query parameters for GET /search/document-url.
type DocumentURLRequest struct {
	ID   string `query:"id" validate:"required,max=200"`
	Type string `query:"type" validate:"max=100"`
}
