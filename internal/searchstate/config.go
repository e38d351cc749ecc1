package searchstate

import "errors"

// ErrUnknownFacetField is returned when a mutator targets a facet field the
// search configuration does not define. All other malformed input is
// repaired, never rejected.
var ErrUnknownFacetField = errors.New("unknown facet field")

// FacetField describes how a configured facet field maps onto request
// parameters. Key is the parameter key stored under KeyFacets; it may differ
// from the field's logical name. Single marks fields that hold at most one
// selection: adding a value replaces any previous one.
type FacetField struct {
	Key    string
	Single bool
}

// Config supplies the externally owned collaborators the engine consumes but
// does not define. Implementation: internal/searchconfig.
type Config interface {
	// FacetField resolves the configuration for a facet field by logical
	// name. Returns an error wrapping ErrUnknownFacetField when the field
	// is not configured.
	FacetField(name string) (FacetField, error)

	// Sanitize filters a parameter map down to the keys that are legal to
	// retain or forward. The policy is owned by the implementation; the
	// engine treats it as opaque.
	Sanitize(params Params) Params

	// FacetRequestKeys lists the facet-paginator request keys to strip
	// when redirecting from a facet detail view back to the main search.
	FacetRequestKeys() []string
}
