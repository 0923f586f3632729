// Package pager computes the page window shown under a table.
//
// Given the total number of rows, the page size, the current page and the
// number of page links to show, Paginate returns the visible window of page
// numbers together with the index range of the rows on the current page.
//
// Example usage:
//
//	p := pager.Paginate(2, 57, 25, 5)
//	p.Pages      // [1 2 3]
//	p.StartIndex // 25
//	p.EndIndex   // 49
//
// All inputs are defaulted or clamped; Paginate never fails.
package pager

const (
	defaultPageSize = 10
	defaultMaxPages = 5
)

// Pager is the derived paging state of a table.
type Pager struct {
	TotalItems  int
	CurrentPage int
	PageSize    int
	MaxPages    int
	TotalPages  int
	StartPage   int
	EndPage     int
	StartIndex  int
	EndIndex    int
	Pages       []int
}

// Paginate builds the Pager for currentPage.
//
// The rules applied are:
//   - pageSize <= 0 uses 10, maxPages <= 0 uses 5, totalItems < 0 uses 0
//   - currentPage is clamped into [1, max(totalPages, 1)]
//   - when totalPages <= maxPages every page is shown
//   - otherwise the window is centered on currentPage and pinned to either end
//
// With zero items the pager has no pages: TotalPages and EndPage are 0,
// StartPage and CurrentPage are 1 and EndIndex is -1.
func Paginate(currentPage, totalItems, pageSize, maxPages int) Pager {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}
	if totalItems < 0 {
		totalItems = 0
	}

	totalPages := (totalItems + pageSize - 1) / pageSize
	currentPage = clamp(currentPage, totalPages)

	var startPage, endPage int
	switch {
	case totalPages <= maxPages:
		startPage, endPage = 1, totalPages
	default:
		before := maxPages / 2
		after := (maxPages+1)/2 - 1

		switch {
		case currentPage <= before:
			startPage, endPage = 1, maxPages
		case currentPage+after >= totalPages:
			startPage, endPage = totalPages-maxPages+1, totalPages
		default:
			startPage, endPage = currentPage-before, currentPage+after
		}
	}

	startIndex := (currentPage - 1) * pageSize
	endIndex := min(startIndex+pageSize-1, totalItems-1)

	pages := make([]int, 0, max(endPage-startPage+1, 0))
	for p := startPage; p <= endPage; p++ {
		pages = append(pages, p)
	}

	return Pager{
		TotalItems:  totalItems,
		CurrentPage: currentPage,
		PageSize:    pageSize,
		MaxPages:    maxPages,
		TotalPages:  totalPages,
		StartPage:   startPage,
		EndPage:     endPage,
		StartIndex:  startIndex,
		EndIndex:    endIndex,
		Pages:       pages,
	}
}

// SetPage returns the pager recomputed for requested, clamped into the
// available pages. The page to report to the owner is CurrentPage of the
// result.
func (p Pager) SetPage(requested int) Pager {
	return Paginate(requested, p.TotalItems, p.PageSize, p.MaxPages)
}

// SetPageSize returns the pager recomputed for a new page size, keeping
// the current page when it still exists.
func (p Pager) SetPageSize(size int) Pager {
	return Paginate(p.CurrentPage, p.TotalItems, size, p.MaxPages)
}

// HasPrevious reports whether a page precedes the current one.
func (p Pager) HasPrevious() bool {
	return p.CurrentPage > 1
}

// HasNext reports whether a page follows the current one.
func (p Pager) HasNext() bool {
	return p.CurrentPage < p.TotalPages
}

// IsCurrent reports whether page is the current page.
func (p Pager) IsCurrent(page int) bool {
	return page == p.CurrentPage
}

// clamp keeps page within [1, totalPages]; an empty collection still has page 1.
func clamp(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}
