package featurestore

import (
	"fmt"
	"strconv"
	"strings"
)

type Verb string

const (
	VerbSelect Verb = "SELECT"
	VerbSum    Verb = "SUM"
	VerbAvg    Verb = "AVG"
	VerbCount  Verb = "COUNT"
	VerbMin    Verb = "MIN"
	VerbMax    Verb = "MAX"
)

var aggregationVerbs = map[Verb]bool{
	VerbSum:   true,
	VerbAvg:   true,
	VerbCount: true,
	VerbMin:   true,
	VerbMax:   true,
}

type FilterOp string

const (
	OpEq  FilterOp = "="
	OpNeq FilterOp = "!="
	OpGt  FilterOp = ">"
	OpGte FilterOp = ">="
	OpLt  FilterOp = "<"
	OpLte FilterOp = "<="
)

// Filter is the optional WHERE clause of a computation expression,
// applied to records before grouping.
type Filter struct {
	Column string
	Op     FilterOp
	Value  any
}

// Expr is a computation-logic expression parsed once at definition
// time: an aggregation verb over one source column, with an optional
// filter. "COUNT(*)" counts rows per entity.
type Expr struct {
	Verb   Verb
	Column string
	Filter *Filter
}

// Parse turns a computation-logic string into a typed expression.
// Accepted forms:
//
//	column
//	VERB(column)
//	VERB(column) WHERE column op literal
func Parse(logic string) (Expr, error) {
	trimmed := strings.TrimSpace(logic)
	if trimmed == "" {
		return Expr{}, &InvalidComputationLogicError{Logic: logic, Reason: "empty expression"}
	}

	head := trimmed
	var filter *Filter
	if idx := indexWordFold(trimmed, "WHERE"); idx >= 0 {
		head = strings.TrimSpace(trimmed[:idx])
		f, err := parseFilter(logic, trimmed[idx+len("WHERE"):])
		if err != nil {
			return Expr{}, err
		}
		filter = f
	}

	open := strings.IndexByte(head, '(')
	if open < 0 {
		if !isIdentifier(head) {
			return Expr{}, &InvalidComputationLogicError{Logic: logic, Reason: fmt.Sprintf("%q is not a column name or aggregation call", head)}
		}
		return Expr{Verb: VerbSelect, Column: head, Filter: filter}, nil
	}

	if !strings.HasSuffix(head, ")") {
		return Expr{}, &InvalidComputationLogicError{Logic: logic, Reason: "unbalanced parentheses"}
	}
	verb := Verb(strings.ToUpper(strings.TrimSpace(head[:open])))
	column := strings.TrimSpace(head[open+1 : len(head)-1])

	if !aggregationVerbs[verb] {
		return Expr{}, &UnsupportedComputationError{Verb: string(verb)}
	}
	if column == "*" {
		if verb != VerbCount {
			return Expr{}, &InvalidComputationLogicError{Logic: logic, Reason: fmt.Sprintf("%s(*) is not supported", verb)}
		}
		return Expr{Verb: verb, Column: "*", Filter: filter}, nil
	}
	if !isIdentifier(column) {
		return Expr{}, &InvalidComputationLogicError{Logic: logic, Reason: fmt.Sprintf("%q is not a valid column name", column)}
	}
	return Expr{Verb: verb, Column: column, Filter: filter}, nil
}

// Validate checks column references against the raw table schema.
func (e Expr) Validate(schema Schema) error {
	if e.Column != "*" {
		if _, ok := schema[e.Column]; !ok {
			return &InvalidComputationLogicError{Logic: e.String(), Reason: fmt.Sprintf("column %q is not in the raw table schema", e.Column)}
		}
	}
	if e.Filter != nil {
		if _, ok := schema[e.Filter.Column]; !ok {
			return &InvalidComputationLogicError{Logic: e.String(), Reason: fmt.Sprintf("filter column %q is not in the raw table schema", e.Filter.Column)}
		}
	}
	return nil
}

func (e Expr) String() string {
	var b strings.Builder
	if e.Verb == VerbSelect {
		b.WriteString(e.Column)
	} else {
		fmt.Fprintf(&b, "%s(%s)", e.Verb, e.Column)
	}
	if e.Filter != nil {
		fmt.Fprintf(&b, " WHERE %s %s %v", e.Filter.Column, e.Filter.Op, e.Filter.Value)
	}
	return b.String()
}

func parseFilter(logic, clause string) (*Filter, error) {
	fields := strings.Fields(clause)
	if len(fields) != 3 {
		return nil, &InvalidComputationLogicError{Logic: logic, Reason: "filter must be `column op literal`"}
	}
	column, opRaw, literal := fields[0], fields[1], fields[2]
	if !isIdentifier(column) {
		return nil, &InvalidComputationLogicError{Logic: logic, Reason: fmt.Sprintf("%q is not a valid filter column", column)}
	}
	var op FilterOp
	switch FilterOp(opRaw) {
	case OpEq, OpNeq, OpGt, OpGte, OpLt, OpLte:
		op = FilterOp(opRaw)
	default:
		return nil, &InvalidComputationLogicError{Logic: logic, Reason: fmt.Sprintf("unsupported filter operator %q", opRaw)}
	}
	return &Filter{Column: column, Op: op, Value: parseLiteral(literal)}, nil
}

func parseLiteral(raw string) any {
	if len(raw) >= 2 {
		if (raw[0] == '\'' && raw[len(raw)-1] == '\'') || (raw[0] == '"' && raw[len(raw)-1] == '"') {
			return raw[1 : len(raw)-1]
		}
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	switch strings.ToLower(raw) {
	case "true":
		return true
	case "false":
		return false
	}
	return raw
}

// Matches evaluates the filter against one record. Records without the
// filter column never match.
func (f *Filter) Matches(record Record) bool {
	if f == nil {
		return true
	}
	value, ok := record[f.Column]
	if !ok {
		return false
	}
	if want, wok := toFloat(f.Value); wok {
		if got, gok := toFloat(value); gok {
			return compareFloat(got, want, f.Op)
		}
	}
	got := fmt.Sprint(value)
	want := fmt.Sprint(f.Value)
	switch f.Op {
	case OpEq:
		return got == want
	case OpNeq:
		return got != want
	case OpGt:
		return got > want
	case OpGte:
		return got >= want
	case OpLt:
		return got < want
	case OpLte:
		return got <= want
	}
	return false
}

func compareFloat(got, want float64, op FilterOp) bool {
	switch op {
	case OpEq:
		return got == want
	case OpNeq:
		return got != want
	case OpGt:
		return got > want
	case OpGte:
		return got >= want
	case OpLt:
		return got < want
	case OpLte:
		return got <= want
	}
	return false
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// indexWordFold finds a standalone, case-insensitive keyword so column
// names containing the substring are not mistaken for a clause.
func indexWordFold(s, word string) int {
	upper := strings.ToUpper(s)
	word = strings.ToUpper(word)
	from := 0
	for {
		idx := strings.Index(upper[from:], word)
		if idx < 0 {
			return -1
		}
		idx += from
		before := idx == 0 || upper[idx-1] == ' ' || upper[idx-1] == ')'
		afterIdx := idx + len(word)
		after := afterIdx >= len(upper) || upper[afterIdx] == ' '
		if before && after {
			return idx
		}
		from = afterIdx
	}
}
