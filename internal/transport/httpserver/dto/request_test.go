package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-search-service/internal/searchstate"
	"catalog-search-service/internal/validator"
)

func newTestValidator() *validator.Validator {
	return validator.New()
}

// TestFacetMutationRequest_Validation tests facet mutation requests.
func TestFacetMutationRequest_Validation(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name        string
		req         FacetMutationRequest
		wantErr     bool
		expectField string
		expectTag   string
	}{
		{
			name: "field only",
			req:  FacetMutationRequest{Field: "genre"},
		},
		{
			name: "field and value",
			req:  FacetMutationRequest{Field: "genre", Value: "fiction"},
		},
		{
			name: "with fq pairs",
			req:  FacetMutationRequest{Field: "genre", Value: "fiction", FQ: []string{"era:modern"}},
		},
		{
			name:        "missing field",
			req:         FacetMutationRequest{Value: "fiction"},
			wantErr:     true,
			expectField: "field",
			expectTag:   "required",
		},
		{
			name:        "field too long",
			req:         FacetMutationRequest{Field: string(make([]byte, 101))},
			wantErr:     true,
			expectField: "field",
			expectTag:   "max",
		},
		{
			name:        "fq pair too long",
			req:         FacetMutationRequest{Field: "genre", FQ: []string{string(make([]byte, 601))}},
			wantErr:     true,
			expectField: "fq[0]",
			expectTag:   "max",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.req)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			validationErrs, ok := err.(validator.ValidationErrors)
			require.True(t, ok, "expected ValidationErrors type")

			found := false
			for _, ve := range validationErrs {
				if ve.Field == tt.expectField {
					found = true
					assert.Equal(t, tt.expectTag, ve.Tag)
				}
			}
			assert.True(t, found, "expected error for field %s", tt.expectField)
		})
	}
}

// TestFacetMutationRequest_ToFacetItem tests conversion to the engine's
// facet item forms.
func TestFacetMutationRequest_ToFacetItem(t *testing.T) {
	tests := []struct {
		name     string
		req      FacetMutationRequest
		expected any
	}{
		{
			name:     "plain value stays a string",
			req:      FacetMutationRequest{Field: "genre", Value: "fiction"},
			expected: "fiction",
		},
		{
			name: "fq pairs build a structured item",
			req:  FacetMutationRequest{Field: "genre", Value: "fiction", FQ: []string{"era:modern", "language:en"}},
			expected: searchstate.FacetItem{
				Value: "fiction",
				FQ: []searchstate.FieldValue{
					{Field: "era", Value: "modern"},
					{Field: "language", Value: "en"},
				},
			},
		},
		{
			name: "value containing colon splits on the first",
			req:  FacetMutationRequest{Field: "genre", Value: "x", FQ: []string{"subject:history:modern"}},
			expected: searchstate.FacetItem{
				Value: "x",
				FQ:    []searchstate.FieldValue{{Field: "subject", Value: "history:modern"}},
			},
		},
		{
			name:     "malformed pairs are skipped",
			req:      FacetMutationRequest{Field: "genre", Value: "x", FQ: []string{"nopair", ":novalue"}},
			expected: searchstate.FacetItem{Value: "x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.req.ToFacetItem())
		})
	}
}

// TestSaveSearchRequest_Validation tests save requests.
func TestSaveSearchRequest_Validation(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name    string
		req     SaveSearchRequest
		wantErr bool
	}{
		{
			name: "valid request",
			req: SaveSearchRequest{
				SessionID: "sess-1",
				Params:    map[string]any{"q": "dogs"},
			},
		},
		{
			name:    "missing session id",
			req:     SaveSearchRequest{Params: map[string]any{"q": "dogs"}},
			wantErr: true,
		},
		{
			name:    "missing params",
			req:     SaveSearchRequest{SessionID: "sess-1"},
			wantErr: true,
		},
		{
			name: "session id too long",
			req: SaveSearchRequest{
				SessionID: string(make([]byte, 101)),
				Params:    map[string]any{"q": "dogs"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestRecentSearchesRequest_Validation tests recent-list requests.
func TestRecentSearchesRequest_Validation(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name    string
		req     RecentSearchesRequest
		wantErr bool
	}{
		{
			name: "session id only",
			req:  RecentSearchesRequest{SessionID: "sess-1"},
		},
		{
			name: "explicit limit",
			req:  RecentSearchesRequest{SessionID: "sess-1", Limit: 25},
		},
		{
			name:    "missing session id",
			req:     RecentSearchesRequest{Limit: 10},
			wantErr: true,
		},
		{
			name:    "limit too large",
			req:     RecentSearchesRequest{SessionID: "sess-1", Limit: 101},
			wantErr: true,
		},
		{
			name:    "negative limit",
			req:     RecentSearchesRequest{SessionID: "sess-1", Limit: -1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestPruneRequest_Validation tests prune requests.
func TestPruneRequest_Validation(t *testing.T) {
	v := newTestValidator()

	assert.NoError(t, v.Validate(&PruneRequest{}))
	assert.NoError(t, v.Validate(&PruneRequest{Days: 30}))
	assert.Error(t, v.Validate(&PruneRequest{Days: -1}))
	assert.Error(t, v.Validate(&PruneRequest{Days: 10000}))
}
