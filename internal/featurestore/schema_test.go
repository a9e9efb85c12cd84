package featurestore

import (
	"errors"
	"testing"
)

func TestParseSchema(t *testing.T) {
	schema, err := ParseSchema(map[string]string{
		"user_id": "string",
		"amount":  "Float",
		"count":   "int",
		"flag":    "bool",
	})
	if err != nil {
		t.Fatalf("ParseSchema: %v", err)
	}
	if schema["amount"] != ColumnFloat {
		t.Fatalf("expected float, got %s", schema["amount"])
	}

	if _, err := ParseSchema(nil); err == nil {
		t.Fatal("expected empty schema to be rejected")
	}
	if _, err := ParseSchema(map[string]string{"x": "decimal"}); err == nil {
		t.Fatal("expected unknown type to be rejected")
	}
}

func TestValidateRecordsClean(t *testing.T) {
	schema := Schema{"user_id": ColumnString, "amount": ColumnFloat}
	records := []Record{
		{"user_id": "u1", "amount": 10.0},
		{"user_id": "u2", "amount": "12.5"}, // numeric string coerces
		{"user_id": "u3", "amount": 3},
	}
	if err := ValidateRecords(schema, records); err != nil {
		t.Fatalf("ValidateRecords: %v", err)
	}
}

func TestValidateRecordsReportsOnlyOffendingRecords(t *testing.T) {
	schema := Schema{"user_id": ColumnString, "amount": ColumnFloat}
	records := make([]Record, 0, 10)
	for i := 0; i < 10; i++ {
		records = append(records, Record{"user_id": "u", "amount": 1.0})
	}
	records[4] = Record{"user_id": "u", "amount": "not-a-number"}

	err := ValidateRecords(schema, records)
	var schemaErr *SchemaValidationError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaValidationError, got %v", err)
	}
	if len(schemaErr.Violations) != 1 {
		t.Fatalf("expected exactly 1 violation, got %d: %v", len(schemaErr.Violations), schemaErr.Violations)
	}
	v := schemaErr.Violations[0]
	if v.Record != 4 || v.Column != "amount" {
		t.Fatalf("unexpected violation: %+v", v)
	}
}

func TestValidateRecordsExhaustive(t *testing.T) {
	schema := Schema{"user_id": ColumnString, "amount": ColumnFloat, "flag": ColumnBool}
	records := []Record{
		{"amount": "oops"}, // missing user_id + missing flag + bad amount
	}
	err := ValidateRecords(schema, records)
	var schemaErr *SchemaValidationError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaValidationError, got %v", err)
	}
	if len(schemaErr.Violations) != 3 {
		t.Fatalf("expected all 3 violations reported, got %d: %v", len(schemaErr.Violations), schemaErr.Violations)
	}
}

func TestCoerceValue(t *testing.T) {
	if v, err := CoerceValue("42", ColumnInt); err != nil || v.(int64) != 42 {
		t.Fatalf("int coercion: %v %v", v, err)
	}
	if _, err := CoerceValue("4.5", ColumnInt); err == nil {
		t.Fatal("expected non-integral int to fail")
	}
	if _, err := CoerceValue(4.0, ColumnInt); err != nil {
		t.Fatalf("integral float should coerce to int: %v", err)
	}
	if v, err := CoerceValue("true", ColumnBool); err != nil || v != true {
		t.Fatalf("bool coercion: %v %v", v, err)
	}
	if _, err := CoerceValue(1, ColumnBool); err == nil {
		t.Fatal("expected numeric bool to fail")
	}
	if _, err := CoerceValue(12.0, ColumnString); err == nil {
		t.Fatal("expected number to fail string coercion")
	}
	if _, err := CoerceValue(nil, ColumnFloat); err == nil {
		t.Fatal("expected null to fail")
	}
}
