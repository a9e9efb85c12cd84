package featurestore

// ValidateFeature checks a feature definition against its raw table's
// schema: the entity key must be a declared column and the computation
// logic must parse and reference only declared columns. The parsed
// expression is returned so callers can reuse it without re-parsing.
func ValidateFeature(entityKey string, logic string, schema Schema) (Expr, error) {
	if _, ok := schema[entityKey]; !ok {
		return Expr{}, &InvalidEntityKeyError{EntityKey: entityKey}
	}
	expr, err := Parse(logic)
	if err != nil {
		return Expr{}, err
	}
	if err := expr.Validate(schema); err != nil {
		return Expr{}, err
	}
	return expr, nil
}

// ValidateVectors checks a computed batch before persistence: no
// entity may appear twice (equal values included), and values must not
// mix scalar and structured shapes.
func ValidateVectors(vectors []Vector) error {
	seen := make(map[string]int, len(vectors))
	var duplicates []string
	for _, v := range vectors {
		seen[v.EntityID]++
		if seen[v.EntityID] == 2 {
			duplicates = append(duplicates, v.EntityID)
		}
	}
	if len(duplicates) > 0 {
		return &DuplicateEntityError{Entities: duplicates}
	}

	var scalars, structured []string
	for _, v := range vectors {
		if isStructured(v.Value) {
			structured = append(structured, v.EntityID)
		} else {
			scalars = append(scalars, v.EntityID)
		}
	}
	if len(scalars) > 0 && len(structured) > 0 {
		// Report the minority shape; that is almost always the batch's
		// actual defect.
		offenders := structured
		if len(scalars) < len(structured) {
			offenders = scalars
		}
		return &InconsistentVectorShapeError{Entities: offenders}
	}
	return nil
}

func isStructured(value any) bool {
	switch value.(type) {
	case map[string]any, []any:
		return true
	default:
		return false
	}
}
