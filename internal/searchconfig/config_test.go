package searchconfig

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-search-service/internal/searchstate"
)

func newTestConfig() *Config {
	return New(Options{
		Facets: []FacetDefinition{
			{Name: "genre"},
			{Name: "author", Key: "author_facet"},
			{Name: "format", Single: true},
		},
		AllowedKeys:    []string{"search_field"},
		ShowController: "catalog",
		ShowTypes:      []string{"record"},
	})
}

func TestConfig_FacetField(t *testing.T) {
	cfg := newTestConfig()

	tests := []struct {
		name       string
		field      string
		expected   searchstate.FacetField
		wantErr    bool
	}{
		{
			name:     "key defaults to name",
			field:    "genre",
			expected: searchstate.FacetField{Key: "genre"},
		},
		{
			name:     "explicit key",
			field:    "author",
			expected: searchstate.FacetField{Key: "author_facet"},
		},
		{
			name:     "single flag carried",
			field:    "format",
			expected: searchstate.FacetField{Key: "format", Single: true},
		},
		{
			name:    "unknown field",
			field:   "nope",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field, err := cfg.FacetField(tt.field)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, searchstate.ErrUnknownFacetField))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, field)
		})
	}
}

func TestConfig_Sanitize(t *testing.T) {
	cfg := newTestConfig()

	result := cfg.Sanitize(searchstate.Params{
		"q":            "cats",
		"f":            map[string][]string{"genre": {"fiction"}},
		"page":         "2",
		"search_field": "title",
		"utf8":         "✓",
		"action":       "index",
	})

	assert.Equal(t, "cats", result["q"])
	assert.Equal(t, "2", result["page"])
	assert.Equal(t, "title", result["search_field"], "configured extras pass")
	assert.NotContains(t, result, "utf8")
	assert.NotContains(t, result, "action")
}

func TestConfig_FacetRequestKeys(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := New(Options{})
		assert.Equal(t, []string{"facet.page", "facet.sort", "facet.prefix"}, cfg.FacetRequestKeys())
	})

	t.Run("configured", func(t *testing.T) {
		cfg := New(Options{RequestKeys: []string{"facet.cursor"}})
		assert.Equal(t, []string{"facet.cursor"}, cfg.FacetRequestKeys())
	})
}

func TestConfig_URLForDocument(t *testing.T) {
	cfg := newTestConfig()

	t.Run("routable type produces show params", func(t *testing.T) {
		result := cfg.URLForDocument(Document{ID: "doc-1", Type: "record"}, map[string]any{"view": "full"})

		route, ok := result.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "catalog", route["controller"])
		assert.Equal(t, "show", route["action"])
		assert.Equal(t, "doc-1", route["id"])
		assert.Equal(t, "full", route["view"])
	})

	t.Run("non-routable type returns the document unchanged", func(t *testing.T) {
		doc := Document{ID: "doc-2", Type: "external"}
		assert.Equal(t, doc, cfg.URLForDocument(doc, nil))
	})

	t.Run("no show controller returns the document unchanged", func(t *testing.T) {
		bare := New(Options{})
		doc := Document{ID: "doc-3", Type: "record"}
		assert.Equal(t, doc, bare.URLForDocument(doc, nil))
	})
}
