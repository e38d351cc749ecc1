// Package service provides application use cases.
package service

import (
	"net/url"

	"go.uber.org/zap"

	"catalog-search-service/internal/searchconfig"
	"catalog-search-service/internal/searchstate"
)

// StateService builds search states from raw request parameters and applies
// the state derivations exposed over HTTP.
type StateService struct {
	config *searchconfig.Config
	logger *zap.Logger
}

// NewStateService creates a new StateService.
func NewStateService(cfg *searchconfig.Config, logger *zap.Logger) *StateService {
	return &StateService{
		config: cfg,
		logger: logger,
	}
}

// FromValues normalizes raw query values into a search state.
func (s *StateService) FromValues(values url.Values) *searchstate.State {
	state := searchstate.FromValues(values, s.config)

	s.logger.Debug("state normalized",
		zap.String("query", state.Query()),
		zap.Int("facet_fields", len(state.Filters())),
	)

	return state
}

// AddFacet derives a state with the item selected under field.
func (s *StateService) AddFacet(state *searchstate.State, field string, item any) (*searchstate.State, error) {
	next, err := state.AddFacet(field, item)
	if err != nil {
		s.logger.Debug("add facet rejected", zap.String("field", field), zap.Error(err))
		return nil, err
	}
	return next, nil
}

// AddFacetForRedirect derives a state safe to redirect back to the search
// action.
func (s *StateService) AddFacetForRedirect(state *searchstate.State, field string, item any) (*searchstate.State, error) {
	next, err := state.AddFacetForRedirect(field, item)
	if err != nil {
		s.logger.Debug("add facet rejected", zap.String("field", field), zap.Error(err))
		return nil, err
	}
	return next, nil
}

// RemoveFacet derives a state with the item's value removed from field.
func (s *StateService) RemoveFacet(state *searchstate.State, field string, item any) (*searchstate.State, error) {
	next, err := state.RemoveFacet(field, item)
	if err != nil {
		s.logger.Debug("remove facet rejected", zap.String("field", field), zap.Error(err))
		return nil, err
	}
	return next, nil
}

// URLForDocument resolves the routing parameters for a document detail view.
func (s *StateService) URLForDocument(doc searchconfig.Document, opts map[string]any) any {
	return s.config.URLForDocument(doc, opts)
}
