// Package pagedview is the core of a paged, sortable, searchable collection
// view for CMDB records.
//
// A screen owns the paging, sort and search state of one table. Whenever that
// state changes it builds a fresh PageRequest, asks a Fetcher for one page of
// rows and hands the PageResponse down to the table for rendering. The table
// itself never fetches.
//
// Fetcher implementations include:
//   - httpsource.Client: REST backend
//   - sqlboiler.Source: SQLBoiler models
//   - memsource.Source: in-memory rows
package pagedview

import (
	"context"
	"encoding/json"

	"github.com/nrfta/pagedview/query"
)

// Row is one opaque backend record (object, type, log, webhook, report...).
// The table only ever looks into it through column data paths.
type Row = json.RawMessage

// Fetcher is the only boundary between a screen and its backend.
type Fetcher interface {
	// FetchPage returns one page of rows for req.
	FetchPage(ctx context.Context, req PageRequest) (*PageResponse, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, req PageRequest) (*PageResponse, error)

// FetchPage calls f(ctx, req).
func (f FetcherFunc) FetchPage(ctx context.Context, req PageRequest) (*PageResponse, error) {
	return f(ctx, req)
}

// PageRequest asks a data source for one page of rows.
// A new request is built for every state change; requests are never mutated.
type PageRequest struct {
	// Filter restricts the rows. Nil means no filter.
	Filter query.Expr

	// Limit is the page size. Always > 0 once normalized.
	Limit int

	// Sort is the field the rows are ordered by. Empty leaves the order to
	// the backend.
	Sort string

	// Order is the sort direction.
	Order Order

	// Page is the 1-based page number.
	Page int

	// Seq is the sequence number the owning screen assigned to this request.
	// Data sources ignore it.
	Seq uint64
}

// Offset returns the number of rows preceding the requested page.
func (r PageRequest) Offset() int {
	if r.Page < 1 || r.Limit < 1 {
		return 0
	}
	return (r.Page - 1) * r.Limit
}

// PageResponse is one page of rows.
type PageResponse struct {
	// Results holds at most Limit rows.
	Results []Row `json:"results"`

	// Total is the number of rows across all pages.
	Total int `json:"total"`
}
