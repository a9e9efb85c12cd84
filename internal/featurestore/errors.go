package featurestore

import (
	"fmt"
	"strings"
)

// Violation pins one schema failure to a record index and column so a
// batch with many problems can be reported in full.
type Violation struct {
	Record int    `json:"record"`
	Column string `json:"column"`
	Reason string `json:"reason"`
}

func (v Violation) String() string {
	return fmt.Sprintf("record %d, column %q: %s", v.Record, v.Column, v.Reason)
}

// SchemaValidationError enumerates every violation found in a batch;
// validation is exhaustive, not fail-fast.
type SchemaValidationError struct {
	Violations []Violation
}

func (e *SchemaValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "schema validation failed"
	}
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.String())
	}
	return fmt.Sprintf("schema validation failed: %s", strings.Join(parts, "; "))
}

// InvalidEntityKeyError rejects a feature whose entity key is not a
// column of the referenced raw table.
type InvalidEntityKeyError struct {
	EntityKey string
}

func (e *InvalidEntityKeyError) Error() string {
	return fmt.Sprintf("entity key %q is not a column of the raw table schema", e.EntityKey)
}

// InvalidComputationLogicError rejects an expression that is malformed
// or references columns absent from the schema.
type InvalidComputationLogicError struct {
	Logic  string
	Reason string
}

func (e *InvalidComputationLogicError) Error() string {
	return fmt.Sprintf("invalid computation logic %q: %s", e.Logic, e.Reason)
}

// UnsupportedComputationError rejects an aggregation verb outside the
// allow-list.
type UnsupportedComputationError struct {
	Verb string
}

func (e *UnsupportedComputationError) Error() string {
	return fmt.Sprintf("unsupported aggregation verb %q", e.Verb)
}

// InconsistentVectorShapeError rejects a batch that mixes scalar and
// structured values.
type InconsistentVectorShapeError struct {
	Entities []string
}

func (e *InconsistentVectorShapeError) Error() string {
	return fmt.Sprintf("vector batch mixes scalar and structured values (entities: %s)", strings.Join(e.Entities, ", "))
}

// DuplicateEntityError rejects a batch in which an entity appears more
// than once; duplicates are a hard error even when the values agree.
type DuplicateEntityError struct {
	Entities []string
}

func (e *DuplicateEntityError) Error() string {
	return fmt.Sprintf("duplicate entities in vector batch: %s", strings.Join(e.Entities, ", "))
}

// EntityNotFoundError signals that no vector exists for the entity
// under the resolved version.
type EntityNotFoundError struct {
	EntityID string
}

func (e *EntityNotFoundError) Error() string {
	return fmt.Sprintf("no feature vector for entity %q", e.EntityID)
}
