// Package offset translates page requests into offset/limit pagination.
//
// This package turns a 1-based page number and page size into the offset
// and limit of a database query. It is designed to work with SQLBoiler
// query mods.
//
// Example usage:
//
//	paginator := offset.New(req)
//	mods := paginator.QueryMods()
//	results, err := models.Objects(mods...).All(ctx, db)
package offset

import (
	"github.com/aarondl/sqlboiler/v4/queries/qm"

	"github.com/nrfta/pagedview"
	"github.com/nrfta/pagedview/pager"
)

const defaultOrderBy = "id"

// Paginator is the paginator for offset-based pagination.
// It encapsulates limit, offset, and ordering for database queries.
type Paginator struct {
	Page    int
	Limit   int
	Offset  int
	orderBy string
}

// New creates a new offset paginator.
//
// Parameters:
//   - req: Page request with page number, page size and sort
//   - config: Optional page config (defaults to pagedview.NewPageConfig())
//
// The paginator automatically handles:
//   - Default page size of 10 records, capped at the configured maximum
//   - Zero-value protection for page numbers below 1
//   - Sorting with default "id" column
//   - Descending order when specified
//
// req.Sort is used verbatim in ORDER BY. Callers must validate it, as
// sqlboiler.Schema does.
func New(req pagedview.PageRequest, config ...*pagedview.PageConfig) Paginator {
	var pc *pagedview.PageConfig
	if len(config) > 0 {
		pc = config[0]
	}
	req = pc.Normalize(req)

	orderBy := defaultOrderBy
	if req.Sort != "" {
		orderBy = req.Sort
	}
	if req.Order.Desc() {
		orderBy = orderBy + " DESC"
	}

	return Paginator{
		Page:    req.Page,
		Limit:   req.Limit,
		Offset:  req.Offset(),
		orderBy: orderBy,
	}
}

// QueryMods returns SQLBoiler query modifiers for pagination.
// These mods apply offset, limit, and order by clauses to a query.
//
// Example usage:
//
//	items, err := models.Objects(paginator.QueryMods()...).All(ctx, db)
func (p *Paginator) QueryMods() []qm.QueryMod {
	return []qm.QueryMod{
		qm.Offset(p.Offset),
		qm.Limit(p.Limit),
		qm.OrderBy(p.orderBy),
	}
}

// PageMods returns only the offset and limit mods, for queries that build
// their own ORDER BY.
func (p *Paginator) PageMods() []qm.QueryMod {
	return []qm.QueryMod{
		qm.Offset(p.Offset),
		qm.Limit(p.Limit),
	}
}

// GetOrderBy returns the ORDER BY clause used by this paginator.
// This includes the column name and DESC modifier if applicable.
func (p *Paginator) GetOrderBy() string {
	return p.orderBy
}

// HasNextPage reports whether rows remain after this page.
func (p *Paginator) HasNextPage(totalCount int64) bool {
	return int64(p.Offset+p.Limit) < totalCount
}

// HasPreviousPage reports whether this is not the first page.
func (p *Paginator) HasPreviousPage() bool {
	return p.Offset > 0
}

// Pager returns the page window for this page given the total count.
func (p *Paginator) Pager(totalCount int64, maxPages int) pager.Pager {
	return pager.Paginate(p.Page, int(totalCount), p.Limit, maxPages)
}
