package searchstate

// FieldValue is a dependent field/value pair carried by a facet item, used
// when selecting one facet implies selecting related ones (pivot facets).
type FieldValue struct {
	Field string
	Value string
}

// FacetItem is a structured facet selection. The mutators also accept a bare
// string when only a value is needed; the two forms are told apart by an
// explicit type switch at the mutator boundary.
type FacetItem struct {
	Value string
	Field string       // overrides the target field when set
	FQ    []FieldValue // dependent selections, applied in order
}

// resolveItem resolves the target field and constraint value from an item,
// which may be a FacetItem, a pointer to one, or a bare value.
func resolveItem(field string, item any) (string, string) {
	switch it := item.(type) {
	case FacetItem:
		if it.Field != "" {
			field = it.Field
		}
		return field, it.Value
	case *FacetItem:
		if it == nil {
			return field, ""
		}
		if it.Field != "" {
			field = it.Field
		}
		return field, it.Value
	case string:
		return field, it
	default:
		return field, toString(item)
	}
}

func itemFQ(item any) []FieldValue {
	switch it := item.(type) {
	case FacetItem:
		return it.FQ
	case *FacetItem:
		if it != nil {
			return it.FQ
		}
	}
	return nil
}

// facetsFrom returns the facet map stored in params as a fresh copy,
// repairing mangled nested shapes on the way. RemoveFacet can be handed
// externally held state that never went through normalization, so the
// repair happens here too.
func facetsFrom(params Params) map[string][]string {
	facets := normalizeFacets(params[KeyFacets])
	if facets == nil {
		facets = make(map[string][]string)
	}
	return facets
}

// addFacetValue appends one constraint value to params in place. It is the
// single-field primitive shared by AddFacet and the FQ expansion.
func (s *State) addFacetValue(params Params, field string, item any) error {
	name, value := resolveItem(field, item)
	cfg, err := s.config.FacetField(name)
	if err != nil {
		return err
	}

	facets := facetsFrom(params)
	seq := facets[cfg.Key]
	if cfg.Single && len(seq) > 0 {
		// single-value fields hold exactly the newest selection
		seq = nil
	}
	facets[cfg.Key] = append(seq, value)
	params[KeyFacets] = facets
	return nil
}

// AddFacetValue derives a new state with a single constraint value appended
// under field. Unlike AddFacet it ignores dependent FQ pairs on the item; it
// is the single-field primitive AddFacet is built on.
func (s *State) AddFacetValue(field string, item any) (*State, error) {
	params := s.resetBase()
	if err := s.addFacetValue(params, field, item); err != nil {
		return nil, err
	}
	return &State{params: params, config: s.config}, nil
}

// AddFacet derives a new state with the item's value selected under field.
// Multi-value fields append without deduplication, mirroring append-only
// link semantics; single-value fields replace. Dependent FQ pairs are
// applied afterwards in insertion order.
func (s *State) AddFacet(field string, item any) (*State, error) {
	params := s.resetBase()
	if err := s.addFacetValue(params, field, item); err != nil {
		return nil, err
	}
	for _, fv := range itemFQ(item) {
		if err := s.addFacetValue(params, fv.Field, fv.Value); err != nil {
			return nil, err
		}
	}
	return &State{params: params, config: s.config}, nil
}

// AddFacetForRedirect is AddFacet with the facet-paginator request keys
// stripped, making the result safe to use as a redirect target back to the
// main search action.
func (s *State) AddFacetForRedirect(field string, item any) (*State, error) {
	next, err := s.AddFacet(field, item)
	if err != nil {
		return nil, err
	}
	for _, key := range s.config.FacetRequestKeys() {
		delete(next.params, key)
	}
	return next, nil
}

// RemoveFacet derives a new state with every occurrence of the item's value
// removed from the field. An emptied field is deleted, and an emptied facet
// map is deleted with it, keeping the canonical state minimal.
func (s *State) RemoveFacet(field string, item any) (*State, error) {
	name, value := resolveItem(field, item)
	cfg, err := s.config.FacetField(name)
	if err != nil {
		return nil, err
	}

	params := s.resetBase()
	facets := facetsFrom(params)

	seq := facets[cfg.Key]
	kept := make([]string, 0, len(seq))
	for _, v := range seq {
		if v != value {
			kept = append(kept, v)
		}
	}

	if len(kept) == 0 {
		delete(facets, cfg.Key)
	} else {
		facets[cfg.Key] = kept
	}
	if len(facets) == 0 {
		delete(params, KeyFacets)
	} else {
		params[KeyFacets] = facets
	}

	return &State{params: params, config: s.config}, nil
}
