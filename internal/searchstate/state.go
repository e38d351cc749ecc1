// Package searchstate implements the search-state engine: it normalizes an
// untrusted request parameter bag into a canonical, immutable snapshot and
// derives new parameter sets from it (add/remove facet, reset, merge for
// search). It sits between the HTTP layer and the search-query builder and
// performs pure computation only.
package searchstate

import (
	"slices"
	"strings"
)

// Reserved parameter keys. Everything else is application-defined and passes
// through the engine untouched.
const (
	KeyQuery   = "q"
	KeyFacets  = "f"
	KeyPage    = "page"
	KeyPerPage = "per_page"
	KeySort    = "sort"
	KeyCounter = "counter"
)

// Params is a canonical parameter map. Values are strings, ordered string
// sequences, or (only under KeyFacets) a field -> sequence mapping.
type Params map[string]any

// State is an immutable snapshot of normalized search parameters. It is
// constructed once per request and never mutated afterwards; every mutator
// returns a brand-new State built from copies, so prior states stay valid
// (for back-links, caches) and concurrent readers need no synchronization.
type State struct {
	params Params
	config Config
}

// ToMap exports a deep copy of the raw canonical map for interop. Mutating
// the result never affects the state.
func (s *State) ToMap() Params {
	return normalizeMap(s.params)
}

// Query returns the raw free-text query, or the empty string when absent.
func (s *State) Query() string {
	q, _ := s.params[KeyQuery].(string)
	return q
}

// Filters returns a copy of the facet constraints, or an empty map when none
// are selected.
func (s *State) Filters() map[string][]string {
	return facetsFrom(s.params)
}

// HasConstraints reports whether the state restricts a search at all: a
// non-blank query or at least one facet constraint.
func (s *State) HasConstraints() bool {
	if strings.TrimSpace(s.Query()) != "" {
		return true
	}
	facets, _ := s.params[KeyFacets].(map[string][]string)
	return len(facets) > 0
}

// HasFacet reports whether the given facet field has constraints. With values
// it reports whether every value is currently selected for the field.
func (s *State) HasFacet(field FacetField, values ...string) bool {
	facets, _ := s.params[KeyFacets].(map[string][]string)
	seq := facets[field.Key]
	if len(values) == 0 {
		return len(seq) > 0
	}
	for _, want := range values {
		if !slices.Contains(seq, want) {
			return false
		}
	}
	return true
}

// resetBase computes the starting point for every derived state: the
// sanitized current params with the request-context keys stripped. Page and
// counter track a position inside one particular result set and are
// meaningless once the result set changes.
func (s *State) resetBase() Params {
	base := s.config.Sanitize(normalizeMap(s.params))
	delete(base, KeyPage)
	delete(base, KeyCounter)
	return base
}

// Reset returns a fresh state built purely from overrides, discarding all
// current parameters.
func (s *State) Reset(overrides map[string]any) *State {
	return FromMap(overrides, s.config)
}

// RemoveQuery returns a derived state with the free-text query cleared while
// facet constraints are kept.
func (s *State) RemoveQuery() *State {
	base := s.resetBase()
	delete(base, KeyQuery)
	return &State{params: base, config: s.config}
}

// ParamsForSearch produces the sanitized parameter set for executing a
// search: the current params shallow-merged with normalized overrides
// (overrides win; an override facet map replaces the current one wholesale).
// The optional transform hook may adjust the merged map in place before
// finalization. When a page is set and the merged per_page or sort differs
// from the current state, the page is forced back to 1 since the old offset
// no longer points at anything meaningful.
func (s *State) ParamsForSearch(overrides map[string]any, transform func(Params)) Params {
	merged := normalizeMap(s.params)
	for key, value := range normalizeMap(overrides) {
		merged[key] = value
	}

	if transform != nil {
		transform(merged)
	}

	if pageSet(merged) &&
		(toString(merged[KeyPerPage]) != toString(s.params[KeyPerPage]) ||
			toString(merged[KeySort]) != toString(s.params[KeySort])) {
		merged[KeyPage] = "1"
	}

	return s.config.Sanitize(merged)
}

func pageSet(params Params) bool {
	value, ok := params[KeyPage]
	return ok && toString(value) != ""
}
