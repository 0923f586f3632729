package query

import (
	"math"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// Match evaluates e against a JSON document. A nil expression matches every
// row. Missing fields never satisfy a comparison, except for Ne and
// Exists(false).
func Match(e Expr, row []byte) bool {
	if e == nil {
		return true
	}
	return eval(e, gjson.ParseBytes(row))
}

func eval(e Expr, doc gjson.Result) bool {
	switch n := e.(type) {
	case Cond:
		return evalCond(n, doc.Get(EscapePath(n.Field)))
	case Pattern:
		return evalPattern(n, doc.Get(EscapePath(n.Field)))
	case Logical:
		if n.Operator == OpOr {
			for _, a := range n.Args {
				if eval(a, doc) {
					return true
				}
			}
			return false
		}
		for _, a := range n.Args {
			if !eval(a, doc) {
				return false
			}
		}
		return true
	case Negation:
		return !eval(n.Arg, doc)
	}
	return false
}

func evalCond(c Cond, r gjson.Result) bool {
	switch c.Operator {
	case OpExists:
		want, _ := c.Value.(bool)
		return r.Exists() == want
	case OpEq:
		return equal(r, c.Value)
	case OpNe:
		return !equal(r, c.Value)
	case OpIn:
		values, _ := c.Value.([]any)
		for _, v := range values {
			if equal(r, v) {
				return true
			}
		}
		return false
	case OpGt, OpGte, OpLt, OpLte:
		cmp, ok := compare(r, c.Value)
		if !ok {
			return false
		}
		switch c.Operator {
		case OpGt:
			return cmp > 0
		case OpGte:
			return cmp >= 0
		case OpLt:
			return cmp < 0
		default:
			return cmp <= 0
		}
	}
	return false
}

func evalPattern(p Pattern, r gjson.Result) bool {
	if !r.Exists() || r.Type == gjson.Null {
		return false
	}
	expr := p.Pattern
	if p.Fold {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return false
	}
	return re.MatchString(r.String())
}

func equal(r gjson.Result, v any) bool {
	if v == nil {
		return r.Exists() && r.Type == gjson.Null
	}
	if !r.Exists() {
		return false
	}
	cmp, ok := compare(r, v)
	return ok && cmp == 0
}

// compare orders r against v when both have the same JSON kind.
func compare(r gjson.Result, v any) (int, bool) {
	if !r.Exists() {
		return 0, false
	}

	if f, ok := toFloat(v); ok {
		if r.Type != gjson.Number {
			return 0, false
		}
		return compareFloat(r.Float(), f), true
	}

	switch val := v.(type) {
	case string:
		if r.Type != gjson.String {
			return 0, false
		}
		return strings.Compare(r.Str, val), true
	case bool:
		if r.Type != gjson.True && r.Type != gjson.False {
			return 0, false
		}
		a, b := r.Bool(), val
		switch {
		case a == b:
			return 0, true
		case !a:
			return -1, true
		default:
			return 1, true
		}
	}
	return 0, false
}

// Compare orders two JSON values for sorting: missing < null < false < true
// < numbers < strings < everything else (compared by raw text).
func Compare(a, b gjson.Result) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}

	switch ra {
	case 4:
		return compareFloat(a.Float(), b.Float())
	case 5:
		return strings.Compare(a.Str, b.Str)
	case 6:
		return strings.Compare(a.Raw, b.Raw)
	}
	return 0
}

func rank(r gjson.Result) int {
	if !r.Exists() {
		return 0
	}
	switch r.Type {
	case gjson.Null:
		return 1
	case gjson.False:
		return 2
	case gjson.True:
		return 3
	case gjson.Number:
		return 4
	case gjson.String:
		return 5
	}
	return 6
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		if math.IsNaN(n) {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
