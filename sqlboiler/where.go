package sqlboiler

import (
	"strings"

	"github.com/aarondl/sqlboiler/v4/queries"
	"github.com/aarondl/sqlboiler/v4/queries/qm"
	"github.com/friendsofgo/errors"

	"github.com/nrfta/pagedview/query"
)

// ColumnFunc maps a filter field onto a SQL column.
type ColumnFunc func(field string) (string, error)

var sqlOps = map[query.Op]string{
	query.OpEq:  "=",
	query.OpGt:  ">",
	query.OpGte: ">=",
	query.OpLt:  "<",
	query.OpLte: "<=",
}

// Where converts a predicate tree into a WHERE query mod with bound
// arguments. A nil expression yields no mods.
//
// Regular expressions use the PostgreSQL ~ and ~* operators.
func Where(e query.Expr, column ColumnFunc) ([]qm.QueryMod, error) {
	clause, args, err := WhereClause(e, column)
	if err != nil || clause == "" {
		return nil, err
	}
	return []qm.QueryMod{rawWhereClause(clause, args)}, nil
}

// WhereClause renders e as SQL with ? placeholders.
func WhereClause(e query.Expr, column ColumnFunc) (string, []any, error) {
	if e == nil {
		return "", nil, nil
	}
	var b whereBuilder
	b.column = column
	if err := b.build(e); err != nil {
		return "", nil, err
	}
	return b.sql.String(), b.args, nil
}

type whereBuilder struct {
	column ColumnFunc
	sql    strings.Builder
	args   []any
}

func (b *whereBuilder) build(e query.Expr) error {
	switch n := e.(type) {
	case query.Cond:
		return b.cond(n)
	case query.Pattern:
		col, err := b.col(n.Field)
		if err != nil {
			return err
		}
		op := " ~ "
		if n.Fold {
			op = " ~* "
		}
		b.sql.WriteString("CAST(" + col + " AS TEXT)" + op + "?")
		b.args = append(b.args, n.Pattern)
		return nil
	case query.Logical:
		sep := " AND "
		if n.Operator == query.OpOr {
			sep = " OR "
		}
		b.sql.WriteByte('(')
		for i, a := range n.Args {
			if i > 0 {
				b.sql.WriteString(sep)
			}
			if err := b.build(a); err != nil {
				return err
			}
		}
		b.sql.WriteByte(')')
		return nil
	case query.Negation:
		b.sql.WriteString("NOT (")
		if err := b.build(n.Arg); err != nil {
			return err
		}
		b.sql.WriteByte(')')
		return nil
	}
	return errors.Errorf("unsupported predicate %T", e)
}

func (b *whereBuilder) cond(c query.Cond) error {
	col, err := b.col(c.Field)
	if err != nil {
		return err
	}

	switch c.Operator {
	case query.OpExists:
		if exists, _ := c.Value.(bool); exists {
			b.sql.WriteString(col + " IS NOT NULL")
		} else {
			b.sql.WriteString(col + " IS NULL")
		}
	case query.OpEq:
		if c.Value == nil {
			b.sql.WriteString(col + " IS NULL")
			return nil
		}
		b.sql.WriteString(col + " = ?")
		b.args = append(b.args, convertValueForSQL(c.Value))
	case query.OpNe:
		// NULL is unequal to every value
		if c.Value == nil {
			b.sql.WriteString(col + " IS NOT NULL")
			return nil
		}
		b.sql.WriteString("(" + col + " <> ? OR " + col + " IS NULL)")
		b.args = append(b.args, convertValueForSQL(c.Value))
	case query.OpIn:
		values, _ := c.Value.([]any)
		if len(values) == 0 {
			b.sql.WriteString("1 = 0")
			return nil
		}
		b.sql.WriteString(col + " IN (")
		for i, v := range values {
			if i > 0 {
				b.sql.WriteString(", ")
			}
			b.sql.WriteByte('?')
			b.args = append(b.args, convertValueForSQL(v))
		}
		b.sql.WriteByte(')')
	case query.OpGt, query.OpGte, query.OpLt, query.OpLte:
		b.sql.WriteString(col + " " + sqlOps[c.Operator] + " ?")
		b.args = append(b.args, convertValueForSQL(c.Value))
	default:
		return errors.Errorf("unsupported operator %q", c.Operator)
	}
	return nil
}

func (b *whereBuilder) col(field string) (string, error) {
	col, err := b.column(field)
	if err != nil {
		return "", err
	}
	return quote(col), nil
}

// rawWhereClause creates a custom query mod that injects a WHERE clause directly.
//
// The function creates a query mod that:
//  1. Adds the WHERE clause to the query's WHERE buffer
//  2. Appends the arguments to the query's argument list
func rawWhereClause(clause string, args []any) qm.QueryMod {
	return qm.QueryModFunc(func(q *queries.Query) {
		queries.AppendWhere(q, clause, args...)
	})
}

// convertValueForSQL converts decoded filter values to SQL argument types.
// Whole float64 values (JSON numbers) become int64 so they compare against
// integer columns.
func convertValueForSQL(val any) any {
	switch v := val.(type) {
	case float64:
		if v == float64(int64(v)) {
			return int64(v)
		}
		return v
	case int32:
		return int64(v)
	}
	return val
}
