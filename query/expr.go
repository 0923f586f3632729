// Package query provides a small typed predicate DSL for collection filters.
//
// Screens build filters as a tree of predicates instead of hand-rolled
// backend-specific documents. The tree is then serialized for whichever
// backend serves the collection:
//
//   - ToMongo / Pipeline: MongoDB aggregation $match stage (REST backend)
//   - sqlboiler.Where: SQL WHERE clause with bound arguments
//   - Match: in-memory evaluation against JSON rows
//
// Example:
//
//	filter := query.And(
//	    query.Eq("type_id", 4),
//	    query.Eq("active", true),
//	    query.Search("srv", "public_id", "fields.hostname"),
//	)
package query

import (
	"regexp"
	"strings"
)

// Op identifies a predicate operator.
type Op string

const (
	OpEq     Op = "eq"
	OpNe     Op = "ne"
	OpGt     Op = "gt"
	OpGte    Op = "gte"
	OpLt     Op = "lt"
	OpLte    Op = "lte"
	OpIn     Op = "in"
	OpExists Op = "exists"
	OpRegex  Op = "regex"
	OpAnd    Op = "and"
	OpOr     Op = "or"
	OpNot    Op = "not"
)

// Expr is a node of a predicate tree. A nil Expr matches everything.
type Expr interface {
	Op() Op
}

// Cond compares the value at Field with Value.
//
// Field is a dot-separated path ("object_information.active").
// For OpIn, Value holds a []any. For OpExists, Value holds a bool.
type Cond struct {
	Field    string
	Operator Op
	Value    any
}

func (c Cond) Op() Op { return c.Operator }

// Pattern matches the string value at Field against a regular expression.
type Pattern struct {
	Field   string
	Pattern string
	Fold    bool // case-insensitive
}

func (Pattern) Op() Op { return OpRegex }

// Logical joins its arguments with AND or OR.
type Logical struct {
	Operator Op
	Args     []Expr
}

func (l Logical) Op() Op { return l.Operator }

// Negation inverts its argument.
type Negation struct {
	Arg Expr
}

func (Negation) Op() Op { return OpNot }

func Eq(field string, value any) Expr  { return Cond{Field: field, Operator: OpEq, Value: value} }
func Ne(field string, value any) Expr  { return Cond{Field: field, Operator: OpNe, Value: value} }
func Gt(field string, value any) Expr  { return Cond{Field: field, Operator: OpGt, Value: value} }
func Gte(field string, value any) Expr { return Cond{Field: field, Operator: OpGte, Value: value} }
func Lt(field string, value any) Expr  { return Cond{Field: field, Operator: OpLt, Value: value} }
func Lte(field string, value any) Expr { return Cond{Field: field, Operator: OpLte, Value: value} }

// In matches when the value at field equals any of values.
func In(field string, values ...any) Expr {
	return Cond{Field: field, Operator: OpIn, Value: values}
}

// Exists matches on presence (or absence) of field.
func Exists(field string, exists bool) Expr {
	return Cond{Field: field, Operator: OpExists, Value: exists}
}

// Regex matches the string value at field against pattern.
func Regex(field, pattern string, fold bool) Expr {
	return Pattern{Field: field, Pattern: pattern, Fold: fold}
}

// And joins args with AND. Nil args are dropped, a single remaining
// argument is returned as is and no arguments yield nil.
func And(args ...Expr) Expr {
	return join(OpAnd, args)
}

// Or joins args with OR, with the same simplifications as And.
func Or(args ...Expr) Expr {
	return join(OpOr, args)
}

// Not negates e. Not(nil) is nil.
func Not(e Expr) Expr {
	if e == nil {
		return nil
	}
	return Negation{Arg: e}
}

func join(op Op, args []Expr) Expr {
	kept := make([]Expr, 0, len(args))
	for _, a := range args {
		if a == nil {
			continue
		}
		// flatten nested joins of the same kind
		if l, ok := a.(Logical); ok && l.Operator == op {
			kept = append(kept, l.Args...)
			continue
		}
		kept = append(kept, a)
	}

	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	}
	return Logical{Operator: op, Args: kept}
}

// Search builds the free-text search predicate used by table screens: a
// case-insensitive substring match of term against any of fields.
// It returns nil for a blank term or when no fields are searchable.
func Search(term string, fields ...string) Expr {
	term = strings.TrimSpace(term)
	if term == "" || len(fields) == 0 {
		return nil
	}

	pattern := regexp.QuoteMeta(term)
	args := make([]Expr, 0, len(fields))
	for _, f := range fields {
		args = append(args, Regex(f, pattern, true))
	}
	return Or(args...)
}

// Fields returns the distinct field paths referenced by e, in first-seen order.
func Fields(e Expr) []string {
	seen := map[string]bool{}
	var out []string
	var walk func(Expr)
	walk = func(e Expr) {
		switch n := e.(type) {
		case Cond:
			if !seen[n.Field] {
				seen[n.Field] = true
				out = append(out, n.Field)
			}
		case Pattern:
			if !seen[n.Field] {
				seen[n.Field] = true
				out = append(out, n.Field)
			}
		case Logical:
			for _, a := range n.Args {
				walk(a)
			}
		case Negation:
			walk(n.Arg)
		}
	}
	walk(e)
	return out
}
