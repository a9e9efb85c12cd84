package featurestore

import (
	"errors"
	"testing"
)

func TestValidateFeatureEntityKeyAbsent(t *testing.T) {
	schema := Schema{"user_id": ColumnString, "amount": ColumnFloat}
	_, err := ValidateFeature("account_id", "AVG(amount)", schema)
	var keyErr *InvalidEntityKeyError
	if !errors.As(err, &keyErr) {
		t.Fatalf("expected InvalidEntityKeyError, got %v", err)
	}
	if keyErr.EntityKey != "account_id" {
		t.Fatalf("unexpected key: %q", keyErr.EntityKey)
	}
}

func TestValidateFeatureLogicAgainstSchema(t *testing.T) {
	schema := Schema{"user_id": ColumnString, "amount": ColumnFloat}

	expr, err := ValidateFeature("user_id", "AVG(amount)", schema)
	if err != nil {
		t.Fatalf("ValidateFeature: %v", err)
	}
	if expr.Verb != VerbAvg {
		t.Fatalf("unexpected expr: %+v", expr)
	}

	var logicErr *InvalidComputationLogicError
	if _, err := ValidateFeature("user_id", "AVG(total)", schema); !errors.As(err, &logicErr) {
		t.Fatalf("expected InvalidComputationLogicError, got %v", err)
	}

	var unsupported *UnsupportedComputationError
	if _, err := ValidateFeature("user_id", "MEDIAN(amount)", schema); !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedComputationError, got %v", err)
	}
}

func TestValidateVectorsDuplicates(t *testing.T) {
	var dupErr *DuplicateEntityError

	// Differing values.
	err := ValidateVectors([]Vector{
		{EntityID: "u1", Value: 1.0},
		{EntityID: "u1", Value: 2.0},
	})
	if !errors.As(err, &dupErr) {
		t.Fatalf("expected DuplicateEntityError, got %v", err)
	}

	// Equal values are still a hard error.
	err = ValidateVectors([]Vector{
		{EntityID: "u1", Value: 1.0},
		{EntityID: "u1", Value: 1.0},
	})
	if !errors.As(err, &dupErr) {
		t.Fatalf("expected DuplicateEntityError for equal values, got %v", err)
	}

	// Every duplicated entity is reported once.
	err = ValidateVectors([]Vector{
		{EntityID: "u1", Value: 1.0},
		{EntityID: "u1", Value: 1.0},
		{EntityID: "u2", Value: 2.0},
		{EntityID: "u2", Value: 2.0},
		{EntityID: "u3", Value: 3.0},
	})
	if !errors.As(err, &dupErr) {
		t.Fatalf("expected DuplicateEntityError, got %v", err)
	}
	if len(dupErr.Entities) != 2 {
		t.Fatalf("expected 2 duplicated entities, got %v", dupErr.Entities)
	}
}

func TestValidateVectorsMixedShapes(t *testing.T) {
	err := ValidateVectors([]Vector{
		{EntityID: "u1", Value: 1.0},
		{EntityID: "u2", Value: map[string]any{"sum": 1.0}},
		{EntityID: "u3", Value: 2.0},
	})
	var shapeErr *InconsistentVectorShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("expected InconsistentVectorShapeError, got %v", err)
	}
	if len(shapeErr.Entities) != 1 || shapeErr.Entities[0] != "u2" {
		t.Fatalf("expected minority offender u2, got %v", shapeErr.Entities)
	}
}

func TestValidateVectorsUniformBatches(t *testing.T) {
	if err := ValidateVectors(nil); err != nil {
		t.Fatalf("empty batch: %v", err)
	}
	if err := ValidateVectors([]Vector{
		{EntityID: "u1", Value: 1.0},
		{EntityID: "u2", Value: "scalar-string"},
	}); err != nil {
		t.Fatalf("scalar batch: %v", err)
	}
	if err := ValidateVectors([]Vector{
		{EntityID: "u1", Value: map[string]any{"a": 1.0}},
		{EntityID: "u2", Value: []any{1.0, 2.0}},
	}); err != nil {
		t.Fatalf("structured batch: %v", err)
	}
}
