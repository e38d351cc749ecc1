// Package searchconfig supplies the concrete search configuration the state
// engine consumes by interface: the facet field registry, the parameter
// sanitizer policy, the facet-paginator request keys, and the document
// show-route helper.
package searchconfig

import (
	"fmt"

	"catalog-search-service/internal/searchstate"
)

// FacetDefinition describes one facet field as declared in application
// configuration (viper section search.facets). Key defaults to Name.
type FacetDefinition struct {
	Name   string `mapstructure:"name"`
	Key    string `mapstructure:"key"`
	Single bool   `mapstructure:"single"`
}

// Options configures a Config.
type Options struct {
	Facets         []FacetDefinition
	AllowedKeys    []string // extra sanitizer allow-list entries
	RequestKeys    []string // facet-paginator keys; defaults when nil
	ShowController string   // controller used by URLForDocument
	ShowTypes      []string // document types allowed to route to show; empty = all
}

// baseAllowedKeys is the baseline sanitizer policy: the stateful search keys.
// Everything else must be allowed explicitly via Options.AllowedKeys.
var baseAllowedKeys = []string{
	searchstate.KeyQuery,
	searchstate.KeyFacets,
	searchstate.KeyPage,
	searchstate.KeyPerPage,
	searchstate.KeySort,
	searchstate.KeyCounter,
}

// defaultRequestKeys are the facet-paginator keys stripped from redirect
// targets.
var defaultRequestKeys = []string{"facet.page", "facet.sort", "facet.prefix"}

// Config implements searchstate.Config.
type Config struct {
	fields         map[string]searchstate.FacetField
	allowed        map[string]struct{}
	requestKeys    []string
	showController string
	showTypes      map[string]struct{}
}

// New builds a Config from options.
func New(opts Options) *Config {
	fields := make(map[string]searchstate.FacetField, len(opts.Facets))
	for _, def := range opts.Facets {
		key := def.Key
		if key == "" {
			key = def.Name
		}
		fields[def.Name] = searchstate.FacetField{Key: key, Single: def.Single}
	}

	requestKeys := opts.RequestKeys
	if requestKeys == nil {
		requestKeys = defaultRequestKeys
	}

	allowed := make(map[string]struct{})
	for _, key := range baseAllowedKeys {
		allowed[key] = struct{}{}
	}
	// request keys stay legal in a sanitized map; only redirects strip them
	for _, key := range requestKeys {
		allowed[key] = struct{}{}
	}
	for _, key := range opts.AllowedKeys {
		allowed[key] = struct{}{}
	}

	showTypes := make(map[string]struct{}, len(opts.ShowTypes))
	for _, t := range opts.ShowTypes {
		showTypes[t] = struct{}{}
	}

	return &Config{
		fields:         fields,
		allowed:        allowed,
		requestKeys:    append([]string(nil), requestKeys...),
		showController: opts.ShowController,
		showTypes:      showTypes,
	}
}

// FacetField resolves a facet field by its logical name.
func (c *Config) FacetField(name string) (searchstate.FacetField, error) {
	field, ok := c.fields[name]
	if !ok {
		return searchstate.FacetField{}, fmt.Errorf("%w: %s", searchstate.ErrUnknownFacetField, name)
	}
	return field, nil
}

// Sanitize filters params down to the allow-listed keys.
func (c *Config) Sanitize(params searchstate.Params) searchstate.Params {
	out := make(searchstate.Params, len(params))
	for key, value := range params {
		if _, ok := c.allowed[key]; ok {
			out[key] = value
		}
	}
	return out
}

// FacetRequestKeys returns the facet-paginator request keys.
func (c *Config) FacetRequestKeys() []string {
	return append([]string(nil), c.requestKeys...)
}

// Document is the minimal document shape the URL helper needs.
type Document struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// URLForDocument returns routing parameters ({controller, action: "show",
// id, plus opts}) for a document's detail view when a show controller is
// configured and the document's type is routable; otherwise the document is
// returned unchanged.
func (c *Config) URLForDocument(doc Document, opts map[string]any) any {
	if c.showController == "" || !c.showTypeAllowed(doc.Type) {
		return doc
	}

	route := map[string]any{
		"controller": c.showController,
		"action":     "show",
		"id":         doc.ID,
	}
	for key, value := range opts {
		route[key] = value
	}
	return route
}

func (c *Config) showTypeAllowed(docType string) bool {
	if len(c.showTypes) == 0 {
		return true
	}
	_, ok := c.showTypes[docType]
	return ok
}
