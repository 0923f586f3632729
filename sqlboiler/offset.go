package sqlboiler

import (
	"strings"

	"github.com/aarondl/sqlboiler/v4/queries/qm"

	"github.com/nrfta/pagedview/offset"
)

// OrderBy is one ORDER BY directive.
type OrderBy struct {
	Column string
	Desc   bool
}

// OffsetToQueryMods converts an offset paginator and ORDER BY directives
// into SQLBoiler query mods.
//
// The conversion follows these rules:
//   - Offset → qm.Offset(n), skipped on the first page
//   - Limit → qm.Limit(n)
//   - OrderBy → qm.OrderBy(`"col1" DESC, "col2"`)
func OffsetToQueryMods(p offset.Paginator, orderBy []OrderBy) []qm.QueryMod {
	mods := []qm.QueryMod{}

	if p.Offset > 0 {
		mods = append(mods, qm.Offset(p.Offset))
	}

	if p.Limit > 0 {
		mods = append(mods, qm.Limit(p.Limit))
	}

	if len(orderBy) > 0 {
		mods = append(mods, qm.OrderBy(buildOrderByClause(orderBy)))
	}

	return mods
}

// buildOrderByClause constructs an ORDER BY clause from OrderBy directives.
// Assumes len(orderBy) > 0 (caller must verify).
//
// Example:
//
//	[]OrderBy{
//	    {Column: "creation_time", Desc: true},
//	    {Column: "objects.public_id", Desc: false},
//	}
//	→ `"creation_time" DESC, "objects"."public_id"`
func buildOrderByClause(orderBy []OrderBy) string {
	parts := make([]string, len(orderBy))
	for i, o := range orderBy {
		if o.Desc {
			parts[i] = quote(o.Column) + " DESC"
		} else {
			parts[i] = quote(o.Column)
		}
	}
	return strings.Join(parts, ", ")
}
