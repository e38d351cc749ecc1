package searchstate

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromMap_MangledFacetRepair(t *testing.T) {
	tests := []struct {
		name     string
		raw      map[string]any
		expected map[string][]string
	}{
		{
			name: "numeric-keyed object becomes ordered sequence",
			raw: map[string]any{
				"f": map[string]any{
					"genre": map[string]any{"0": "fiction", "1": "drama"},
				},
			},
			expected: map[string][]string{"genre": {"fiction", "drama"}},
		},
		{
			name: "index order wins over insertion order",
			raw: map[string]any{
				"f": map[string]any{
					"genre": map[string]any{"10": "last", "2": "second", "1": "first"},
				},
			},
			expected: map[string][]string{"genre": {"first", "second", "last"}},
		},
		{
			name: "plain sequences are left untouched",
			raw: map[string]any{
				"f": map[string]any{
					"genre":  []string{"fiction", "drama"},
					"format": map[string]any{"0": "Book"},
				},
			},
			expected: map[string][]string{
				"genre":  {"fiction", "drama"},
				"format": {"Book"},
			},
		},
		{
			name: "bare string value becomes single-element sequence",
			raw: map[string]any{
				"f": map[string]any{"genre": "fiction"},
			},
			expected: map[string][]string{"genre": {"fiction"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := FromMap(tt.raw, testConfig{})
			assert.Equal(t, tt.expected, state.Filters())
		})
	}
}

func TestFromMap_DoesNotMutateInput(t *testing.T) {
	nested := map[string]any{"0": "fiction", "1": "drama"}
	raw := map[string]any{
		"q": "cats",
		"f": map[string]any{"genre": nested},
	}

	FromMap(raw, testConfig{})

	assert.Equal(t, map[string]any{"0": "fiction", "1": "drama"}, nested,
		"normalization must not repair the caller's map in place")
}

func TestFromMap_PassThrough(t *testing.T) {
	state := FromMap(map[string]any{
		"q":          "cats",
		"controller": "catalog",
		"id":         "doc-1",
		"tags":       []any{"a", "b"},
	}, testConfig{})

	m := state.ToMap()
	assert.Equal(t, "cats", m["q"])
	assert.Equal(t, "catalog", m["controller"])
	assert.Equal(t, "doc-1", m["id"])
	assert.Equal(t, []string{"a", "b"}, m["tags"], "mixed sequences are coerced to strings")
}

func TestFromValues(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected map[string][]string
	}{
		{
			name:     "list form",
			query:    "q=cats&f[genre][]=fiction&f[genre][]=drama",
			expected: map[string][]string{"genre": {"fiction", "drama"}},
		},
		{
			name:     "indexed form is repaired",
			query:    "f[genre][0]=fiction&f[genre][1]=drama",
			expected: map[string][]string{"genre": {"fiction", "drama"}},
		},
		{
			name:     "bare field form",
			query:    "f[genre]=fiction",
			expected: map[string][]string{"genre": {"fiction"}},
		},
		{
			name:     "multiple fields",
			query:    "f[genre][]=fiction&f[format][]=Book",
			expected: map[string][]string{"genre": {"fiction"}, "format": {"Book"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			assert.NoError(t, err)

			state := FromValues(values, testConfig{})
			assert.Equal(t, tt.expected, state.Filters())
		})
	}
}

func TestFromValues_ScalarsAndSequences(t *testing.T) {
	values, err := url.ParseQuery("q=cats&page=2&tag=a&tag=b")
	assert.NoError(t, err)

	m := FromValues(values, testConfig{}).ToMap()

	assert.Equal(t, "cats", m["q"])
	assert.Equal(t, "2", m["page"])
	assert.Equal(t, []string{"a", "b"}, m["tag"], "repeated keys become a sequence")
}
