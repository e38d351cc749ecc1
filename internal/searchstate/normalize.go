package searchstate

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// FromMap builds a State from a generic untrusted parameter map. The input
// is never mutated: the canonical map is a deep-enough copy that later
// mutation of either side cannot affect the other. The facet map under "f"
// is repaired on the way in (see facetValues).
func FromMap(raw map[string]any, cfg Config) *State {
	return &State{params: normalizeMap(raw), config: cfg}
}

// FromValues builds a State from URL query values. Facet constraints are
// accepted in both the list form f[field][]=v and the indexed form
// f[field][0]=v that some clients and intermediaries produce; the indexed
// form goes through the same mangling repair as nested maps.
func FromValues(values url.Values, cfg Config) *State {
	raw := make(map[string]any, len(values))
	var facets map[string]any

	for key, vals := range values {
		field, index, ok := parseFacetKey(key)
		if !ok {
			if len(vals) == 1 {
				raw[key] = vals[0]
			} else {
				raw[key] = append([]string(nil), vals...)
			}
			continue
		}

		if facets == nil {
			facets = make(map[string]any)
		}
		if index == "" {
			existing, _ := facets[field].([]string)
			facets[field] = append(existing, vals...)
			continue
		}
		nested, _ := facets[field].(map[string]any)
		if nested == nil {
			nested = make(map[string]any)
			facets[field] = nested
		}
		nested[index] = vals[0]
	}

	if facets != nil {
		raw[KeyFacets] = facets
	}

	return FromMap(raw, cfg)
}

// parseFacetKey splits a bracketed facet query key. It recognizes
// "f[field]", "f[field][]" and "f[field][idx]".
func parseFacetKey(key string) (field, index string, ok bool) {
	prefix := KeyFacets + "["
	if !strings.HasPrefix(key, prefix) {
		return "", "", false
	}
	rest := key[len(prefix):]
	end := strings.IndexByte(rest, ']')
	if end <= 0 {
		return "", "", false
	}
	field, rest = rest[:end], rest[end+1:]
	if rest == "" || rest == "[]" {
		return field, "", true
	}
	if strings.HasPrefix(rest, "[") && strings.HasSuffix(rest, "]") {
		return field, rest[1 : len(rest)-1], true
	}
	return "", "", false
}

// normalizeMap deep-copies raw into canonical shape. It is idempotent on
// already-canonical maps, which is also how states are copied internally.
func normalizeMap(raw map[string]any) Params {
	out := make(Params, len(raw))
	for key, value := range raw {
		if key == KeyFacets {
			// Absence, not an empty structure, signals "no constraint".
			if facets := normalizeFacets(value); len(facets) > 0 {
				out[key] = facets
			}
			continue
		}
		out[key] = normalizeValue(value)
	}
	return out
}

func normalizeValue(value any) any {
	switch v := value.(type) {
	case string:
		return v
	case []string:
		return append([]string(nil), v...)
	case []any:
		seq := make([]string, 0, len(v))
		for _, item := range v {
			seq = append(seq, toString(item))
		}
		return seq
	case map[string]any:
		copied := make(map[string]any, len(v))
		for key, item := range v {
			copied[key] = normalizeValue(item)
		}
		return copied
	case map[string]string:
		copied := make(map[string]any, len(v))
		for key, s := range v {
			copied[key] = s
		}
		return copied
	default:
		return value
	}
}

// normalizeFacets coerces whatever sits under "f" into a fresh
// field -> values map, or nil when the shape cannot hold facets.
func normalizeFacets(value any) map[string][]string {
	switch m := value.(type) {
	case map[string][]string:
		out := make(map[string][]string, len(m))
		for field, seq := range m {
			out[field] = append([]string(nil), seq...)
		}
		return out
	case url.Values:
		return normalizeFacets(map[string][]string(m))
	case map[string]any:
		out := make(map[string][]string, len(m))
		for field, v := range m {
			if seq := facetValues(v); seq != nil {
				out[field] = seq
			}
		}
		return out
	case map[string]string:
		out := make(map[string][]string, len(m))
		for field, s := range m {
			out[field] = []string{s}
		}
		return out
	default:
		return nil
	}
}

// facetValues coerces one field's constraints into an ordered sequence.
// A nested map here is the mangled shape produced when a client serializes
// an array as f[field][0]=v1&f[field][1]=v2 and an intermediary turns it
// into an object with numeric keys; the spurious keys are dropped and the
// values kept in index order.
func facetValues(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return []string{v}
	case []string:
		return append([]string(nil), v...)
	case []any:
		seq := make([]string, 0, len(v))
		for _, item := range v {
			seq = append(seq, toString(item))
		}
		return seq
	case map[string]any:
		return mangledValues(v)
	case map[string]string:
		anyMap := make(map[string]any, len(v))
		for key, s := range v {
			anyMap[key] = s
		}
		return mangledValues(anyMap)
	default:
		return []string{toString(v)}
	}
}

// mangledValues orders a mangled facet map by its keys, numerically when all
// keys are integers, and returns the values.
func mangledValues(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	numeric := true
	for key := range m {
		keys = append(keys, key)
		if _, err := strconv.Atoi(key); err != nil {
			numeric = false
		}
	}
	if numeric {
		sort.Slice(keys, func(i, j int) bool {
			a, _ := strconv.Atoi(keys[i])
			b, _ := strconv.Atoi(keys[j])
			return a < b
		})
	} else {
		sort.Strings(keys)
	}

	seq := make([]string, 0, len(keys))
	for _, key := range keys {
		seq = append(seq, toString(m[key]))
	}
	return seq
}

func toString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
