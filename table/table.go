// Package table is the presentation layer of a paged collection.
//
// A Table receives one already fetched page of rows from its owner and
// turns it into a View: header cells, body rows and a footer with the page
// size choices and the pager window. User intents (page clicks, page size
// changes, header clicks, typed search) are reported back to the owner
// through Events. The table never fetches data itself.
package table

import (
	"sync"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/friendsofgo/errors"

	"github.com/nrfta/pagedview"
	"github.com/nrfta/pagedview/column"
	"github.com/nrfta/pagedview/pager"
	"github.com/nrfta/pagedview/search"
)

const (
	DefaultLoadingMessage = "Loading..."
	DefaultEmptyMessage   = "No entries found"
)

// ErrNotSortable is returned when a header click targets a column that
// cannot be sorted.
var ErrNotSortable = errors.New("column is not sortable")

// Props is the state handed down by the owner.
type Props struct {
	Rows     []pagedview.Row
	Total    int
	Loading  bool
	Sort     pagedview.Sort
	Page     int
	PageSize int

	// Error is shown in place of the empty message when set.
	Error string
}

// Events are the callbacks a table reports user intents through. Nil
// callbacks are skipped. They run on the goroutine of the intent (the
// timer goroutine for search) and never under the table lock.
type Events struct {
	OnPageChange     func(page int)
	OnPageSizeChange func(limit int)
	OnSortChange     func(sort pagedview.Sort)
	OnSearchChange   func(term null.String)

	// OnColumnsChange reports the hidden column names after a visibility
	// toggle.
	OnColumnsChange func(hidden []string)
}

// Config holds the presentation settings of a table.
type Config struct {
	MaxPages       int
	PageSizes      []int
	SearchDelay    time.Duration
	SortPolicy     search.SortPolicy
	LoadingMessage string
	EmptyMessage   string
}

// ConfigFrom derives a table Config from a page config.
func ConfigFrom(pc *pagedview.PageConfig) Config {
	if pc == nil {
		pc = pagedview.NewPageConfig()
	}
	return Config{
		MaxPages:  pc.EffectiveMaxPages(),
		PageSizes: pc.PageSizes,
	}
}

// Table is safe for concurrent use.
type Table struct {
	mu      sync.Mutex
	columns *column.Set
	props   Props
	pager   pager.Pager
	sort    *search.SortState
	box     *search.Box
	events  Events
	config  Config
}

// New returns a table over columns.
func New(columns *column.Set, events Events, config Config) *Table {
	if config.MaxPages <= 0 {
		config.MaxPages = pagedview.DefaultMaxPages
	}
	if len(config.PageSizes) == 0 {
		config.PageSizes = pagedview.DefaultPageSizes
	}
	if config.LoadingMessage == "" {
		config.LoadingMessage = DefaultLoadingMessage
	}
	if config.EmptyMessage == "" {
		config.EmptyMessage = DefaultEmptyMessage
	}

	t := &Table{
		columns: columns,
		events:  events,
		config:  config,
		sort:    search.NewSortState(pagedview.Sort{}, config.SortPolicy),
	}
	t.box = search.NewBox(config.SearchDelay, func(term null.String) {
		if t.events.OnSearchChange != nil {
			t.events.OnSearchChange(term)
		}
	})
	t.pager = pager.Paginate(1, 0, 0, config.MaxPages)
	return t
}

// Update replaces the props and recomputes the pager.
func (t *Table) Update(p Props) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.props = p
	t.pager = pager.Paginate(p.Page, p.Total, p.PageSize, t.config.MaxPages)
	t.sort.Set(p.Sort)
}

// Props returns the current props.
func (t *Table) Props() Props {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.props
}

// Pager returns the current pager.
func (t *Table) Pager() pager.Pager {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pager
}

// Columns returns the column set of the table.
func (t *Table) Columns() *column.Set {
	return t.columns
}

// SearchFields returns the data paths of the searchable columns.
func (t *Table) SearchFields() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.columns.SearchFields()
}

// HiddenColumns returns the names of the hidden columns.
func (t *Table) HiddenColumns() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.columns.Hidden()
}

// SortField returns the data path the named column sorts on. Unknown names
// are returned as they are.
func (t *Table) SortField(name string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if col, ok := t.columns.Lookup(name); ok {
		return col.Field()
	}
	return name
}

// Sortable reports whether the named column can be sorted on.
func (t *Table) Sortable(name string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.columns.Sortable(name)
}

// SelectPage moves to page, clamped into the available pages, and reports
// the resulting page number.
func (t *Table) SelectPage(page int) int {
	t.mu.Lock()
	t.pager = t.pager.SetPage(page)
	t.props.Page = t.pager.CurrentPage
	current := t.pager.CurrentPage
	t.mu.Unlock()

	if t.events.OnPageChange != nil {
		t.events.OnPageChange(current)
	}
	return current
}

// SelectPageSize changes the number of rows per page. Non-positive sizes
// are ignored.
func (t *Table) SelectPageSize(size int) {
	if size <= 0 {
		return
	}

	t.mu.Lock()
	t.props.PageSize = size
	t.pager = t.pager.SetPageSize(size)
	t.mu.Unlock()

	if t.events.OnPageSizeChange != nil {
		t.events.OnPageSizeChange(size)
	}
}

// ClickHeader makes the named column the active sort and reports it.
func (t *Table) ClickHeader(name string) (pagedview.Sort, error) {
	t.mu.Lock()
	if !t.columns.Sortable(name) {
		t.mu.Unlock()
		return pagedview.Sort{}, errors.Wrap(ErrNotSortable, name)
	}
	sort := t.sort.Toggle(name)
	t.props.Sort = sort
	t.mu.Unlock()

	if t.events.OnSortChange != nil {
		t.events.OnSortChange(sort)
	}
	return sort, nil
}

// TypeSearch records search input. The owner is told once typing settles.
func (t *Table) TypeSearch(input string) {
	t.box.Type(input)
}

// SubmitSearch reports the typed search input without waiting.
func (t *Table) SubmitSearch() {
	t.box.Submit()
}

// SearchInput returns the raw search text.
func (t *Table) SearchInput() string {
	return t.box.Input()
}

// RestoreSearch sets the search term without reporting it.
func (t *Table) RestoreSearch(term null.String) {
	t.box.Reset(term)
}

// HideColumn hides a column and reports the new hidden set.
func (t *Table) HideColumn(name string) error {
	return t.toggleColumn(name, t.columns.Hide)
}

// ShowColumn shows a hidden column and reports the new hidden set.
func (t *Table) ShowColumn(name string) error {
	return t.toggleColumn(name, t.columns.Show)
}

// RestoreColumns hides exactly the named columns without reporting.
func (t *Table) RestoreColumns(hidden []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.columns.SetHidden(hidden)
}

func (t *Table) toggleColumn(name string, toggle func(string) error) error {
	t.mu.Lock()
	if err := toggle(name); err != nil {
		t.mu.Unlock()
		return err
	}
	hidden := t.columns.Hidden()
	t.mu.Unlock()

	if t.events.OnColumnsChange != nil {
		t.events.OnColumnsChange(hidden)
	}
	return nil
}

// Close stops the pending search timer. Typed input is dropped afterwards.
func (t *Table) Close() {
	t.box.Close()
}
