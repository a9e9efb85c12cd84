package featurestore

import (
	"fmt"
)

// Vector is the computed value for one entity.
type Vector struct {
	EntityID string `json:"entity_id"`
	Value    any    `json:"value"`
}

// Result is a computed batch plus metadata about records that could
// not participate in grouping.
type Result struct {
	Vectors []Vector `json:"vectors"`
	Skipped int      `json:"skipped"`
}

type group struct {
	entityID string
	count    int
	sum      float64
	min      float64
	max      float64
	selected any
	hasValue bool
}

// Compute groups records by the entity key and applies the expression
// per group. Entities are emitted in first-encounter order, so output
// is deterministic for a fixed input order. Records missing the entity
// key are excluded and counted as skipped; an empty input yields an
// empty result.
func Compute(expr Expr, entityKey string, records []Record) (Result, error) {
	groups := make(map[string]*group)
	var order []string
	skipped := 0

	for i, record := range records {
		keyValue, ok := record[entityKey]
		if !ok || keyValue == nil {
			skipped++
			continue
		}
		if !expr.Filter.Matches(record) {
			continue
		}
		entityID := fmt.Sprint(keyValue)
		g, ok := groups[entityID]
		if !ok {
			g = &group{entityID: entityID}
			groups[entityID] = g
			order = append(order, entityID)
		}

		switch expr.Verb {
		case VerbSelect:
			if !g.hasValue {
				g.selected = record[expr.Column]
				g.hasValue = true
			}
		case VerbCount:
			if expr.Column == "*" {
				g.count++
			} else if _, present := record[expr.Column]; present {
				g.count++
			}
		case VerbSum, VerbAvg, VerbMin, VerbMax:
			raw, present := record[expr.Column]
			if !present {
				return Result{}, &InvalidComputationLogicError{
					Logic:  expr.String(),
					Reason: fmt.Sprintf("record %d has no column %q", i, expr.Column),
				}
			}
			f, ok := toFloat(raw)
			if !ok {
				return Result{}, &InvalidComputationLogicError{
					Logic:  expr.String(),
					Reason: fmt.Sprintf("record %d: column %q value %v is not numeric", i, expr.Column, raw),
				}
			}
			if g.count == 0 || f < g.min {
				g.min = f
			}
			if g.count == 0 || f > g.max {
				g.max = f
			}
			g.sum += f
			g.count++
		default:
			return Result{}, &UnsupportedComputationError{Verb: string(expr.Verb)}
		}
	}

	vectors := make([]Vector, 0, len(order))
	for _, entityID := range order {
		g := groups[entityID]
		var value any
		switch expr.Verb {
		case VerbSelect:
			value = g.selected
		case VerbCount:
			value = float64(g.count)
		case VerbSum:
			value = g.sum
		case VerbAvg:
			if g.count == 0 {
				continue
			}
			value = g.sum / float64(g.count)
		case VerbMin:
			if g.count == 0 {
				continue
			}
			value = g.min
		case VerbMax:
			if g.count == 0 {
				continue
			}
			value = g.max
		}
		vectors = append(vectors, Vector{EntityID: entityID, Value: value})
	}
	return Result{Vectors: vectors, Skipped: skipped}, nil
}
