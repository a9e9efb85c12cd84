package featurestore

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type ColumnType string

const (
	ColumnString ColumnType = "string"
	ColumnFloat  ColumnType = "float"
	ColumnInt    ColumnType = "int"
	ColumnBool   ColumnType = "bool"
)

// Schema maps a raw table's column names to their declared types.
type Schema map[string]ColumnType

// Record is one ingested row, column name to raw value.
type Record map[string]any

// ParseSchema validates a raw column->type mapping as it arrives from
// the API or the store.
func ParseSchema(raw map[string]string) (Schema, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("schema definition is empty")
	}
	out := make(Schema, len(raw))
	for column, typ := range raw {
		column = strings.TrimSpace(column)
		if column == "" {
			return nil, fmt.Errorf("schema contains an empty column name")
		}
		switch ColumnType(strings.ToLower(strings.TrimSpace(typ))) {
		case ColumnString, ColumnFloat, ColumnInt, ColumnBool:
			out[column] = ColumnType(strings.ToLower(strings.TrimSpace(typ)))
		default:
			return nil, fmt.Errorf("column %q: unknown type %q", column, typ)
		}
	}
	return out, nil
}

// ValidateRecords checks every record against the declared schema and
// reports every violation at once. A nil return means the batch is
// clean.
func ValidateRecords(schema Schema, records []Record) error {
	var violations []Violation
	for i, record := range records {
		for column, typ := range schema {
			value, ok := record[column]
			if !ok {
				violations = append(violations, Violation{
					Record: i,
					Column: column,
					Reason: "missing required column",
				})
				continue
			}
			if _, err := CoerceValue(value, typ); err != nil {
				violations = append(violations, Violation{
					Record: i,
					Column: column,
					Reason: err.Error(),
				})
			}
		}
	}
	if len(violations) > 0 {
		return &SchemaValidationError{Violations: violations}
	}
	return nil
}

// CoerceValue converts a raw value to the declared column type.
// Numeric strings convert to float/int; int additionally requires an
// integral value. Declared strings accept only strings.
func CoerceValue(value any, typ ColumnType) (any, error) {
	if value == nil {
		return nil, fmt.Errorf("value is null, expected %s", typ)
	}
	switch typ {
	case ColumnString:
		if s, ok := value.(string); ok {
			return s, nil
		}
		return nil, fmt.Errorf("expected string, got %T", value)
	case ColumnFloat:
		f, ok := toFloat(value)
		if !ok {
			return nil, fmt.Errorf("expected float, got %v (%T)", value, value)
		}
		return f, nil
	case ColumnInt:
		f, ok := toFloat(value)
		if !ok {
			return nil, fmt.Errorf("expected int, got %v (%T)", value, value)
		}
		if f != math.Trunc(f) {
			return nil, fmt.Errorf("expected int, got non-integral %v", value)
		}
		return int64(f), nil
	case ColumnBool:
		switch v := value.(type) {
		case bool:
			return v, nil
		case string:
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "true":
				return true, nil
			case "false":
				return false, nil
			}
		}
		return nil, fmt.Errorf("expected bool, got %v (%T)", value, value)
	default:
		return nil, fmt.Errorf("unknown column type %q", typ)
	}
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
