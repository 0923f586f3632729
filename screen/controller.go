// Package screen owns the paging, sort and search state of one table.
//
// A Controller wires a table.Table to a pagedview.Fetcher. Every state
// change (page, page size, sort, search, filter) builds a fresh
// PageRequest carrying a new sequence number, marks the table as loading
// and fetches. A response is applied only when its sequence number is the
// latest one issued, so a slow earlier request can never overwrite the
// result of a later one.
package screen

import (
	"context"
	"sync"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/friendsofgo/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nrfta/pagedview"
	"github.com/nrfta/pagedview/column"
	"github.com/nrfta/pagedview/query"
	"github.com/nrfta/pagedview/registry"
	"github.com/nrfta/pagedview/search"
	"github.com/nrfta/pagedview/settings"
	"github.com/nrfta/pagedview/table"
)

var (
	// ErrStale is returned for a response superseded by a later request.
	ErrStale = errors.New("stale page response")

	// ErrClosed is returned by fetches after Close.
	ErrClosed = errors.New("screen closed")
)

// State is a snapshot of a Controller.
type State struct {
	Page    int
	Limit   int
	Sort    pagedview.Sort
	Term    null.String
	Total   int
	Loading bool
	Error   string
	Seq     uint64
}

// Controller is safe for concurrent use.
type Controller struct {
	id          string
	fetcher     pagedview.Fetcher
	table       *table.Table
	config      *pagedview.PageConfig
	logger      *zap.Logger
	ctx         context.Context
	store       settings.Store
	counters    *registry.Counters
	onError     func(error)
	searchDelay time.Duration
	sortPolicy  search.SortPolicy

	mu      sync.Mutex
	seq     uint64
	page    int
	limit   int
	sort    pagedview.Sort
	term    null.String
	filter  query.Expr
	rows    []pagedview.Row
	total   int
	loading bool
	errMsg  string
	closed  bool
}

// New creates a controller showing columns from fetcher. Nothing is
// fetched until Load.
func New(fetcher pagedview.Fetcher, columns *column.Set, opts ...Option) *Controller {
	c := &Controller{
		fetcher: fetcher,
		config:  pagedview.NewPageConfig(),
		logger:  zap.NewNop(),
		ctx:     context.Background(),
		page:    1,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.id == "" {
		c.id = uuid.NewString()
	}
	c.limit = c.config.EffectiveLimit(0)
	c.logger = c.logger.With(zap.String("table", c.id))

	cfg := table.ConfigFrom(c.config)
	cfg.SearchDelay = c.searchDelay
	cfg.SortPolicy = c.sortPolicy
	c.table = table.New(columns, table.Events{
		OnPageChange:     c.changePage,
		OnPageSizeChange: c.changePageSize,
		OnSortChange:     c.changeSort,
		OnSearchChange:   c.changeSearch,
		OnColumnsChange:  c.changeColumns,
	}, cfg)
	c.table.Update(c.propsLocked())

	return c
}

// ID returns the table id.
func (c *Controller) ID() string {
	return c.id
}

// Table returns the table driven by the controller. User intents go to the
// table; the controller reacts to its events.
func (c *Controller) Table() *table.Table {
	return c.table
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Page:    c.page,
		Limit:   c.limit,
		Sort:    c.sort,
		Term:    c.term,
		Total:   c.total,
		Loading: c.loading,
		Error:   c.errMsg,
		Seq:     c.seq,
	}
}

// Request returns the request the next fetch would issue.
func (c *Controller) Request() pagedview.PageRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requestLocked(c.seq + 1)
}

// Load restores saved table settings and fetches the first page.
// A settings failure is logged and does not prevent the fetch.
func (c *Controller) Load(ctx context.Context) error {
	c.restore(ctx)
	return c.fetch(ctx)
}

// Refresh fetches the current page again.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.fetch(ctx)
}

// SetFilter replaces the base filter and fetches the first page.
func (c *Controller) SetFilter(ctx context.Context, filter query.Expr) error {
	c.mu.Lock()
	c.filter = filter
	c.page = 1
	c.mu.Unlock()
	return c.fetch(ctx)
}

// SetSort sorts on the named column like a header click with a fixed
// direction. An empty name clears the sort.
func (c *Controller) SetSort(ctx context.Context, sort pagedview.Sort) error {
	if !sort.IsZero() && !c.table.Sortable(sort.Name) {
		return errors.Wrap(table.ErrNotSortable, sort.Name)
	}
	sort.Order = sort.Order.Normalize()

	c.mu.Lock()
	c.sort = sort
	c.page = 1
	c.mu.Unlock()

	c.save(c.table.HiddenColumns())
	return c.fetch(ctx)
}

// Close stops the search timer. Responses arriving afterwards are dropped.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.table.Close()
}

func (c *Controller) changePage(page int) {
	c.mu.Lock()
	c.page = page
	c.mu.Unlock()
	c.fetch(c.ctx)
}

func (c *Controller) changePageSize(limit int) {
	c.mu.Lock()
	c.limit = c.config.EffectiveLimit(limit)
	c.page = 1
	c.mu.Unlock()
	c.save(c.table.HiddenColumns())
	c.fetch(c.ctx)
}

func (c *Controller) changeSort(sort pagedview.Sort) {
	c.mu.Lock()
	c.sort = sort
	c.page = 1
	c.mu.Unlock()
	c.save(c.table.HiddenColumns())
	c.fetch(c.ctx)
}

func (c *Controller) changeSearch(term null.String) {
	c.mu.Lock()
	c.term = term
	c.page = 1
	c.mu.Unlock()
	c.fetch(c.ctx)
}

func (c *Controller) changeColumns(hidden []string) {
	c.save(hidden)
}

// fetch issues a request for the current state and applies its response
// unless a later request was issued meanwhile.
func (c *Controller) fetch(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.seq++
	req := c.requestLocked(c.seq)
	c.loading = true
	c.table.Update(c.propsLocked())
	c.mu.Unlock()

	c.logger.Debug("fetching page",
		zap.Uint64("seq", req.Seq),
		zap.Int("page", req.Page),
		zap.Int("limit", req.Limit),
		zap.String("sort", req.Sort),
	)

	resp, err := c.fetcher.FetchPage(ctx, req)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if req.Seq != c.seq {
		latest := c.seq
		c.mu.Unlock()
		c.logger.Debug("dropped stale page", zap.Uint64("seq", req.Seq), zap.Uint64("latest", latest))
		return ErrStale
	}

	c.loading = false
	if err != nil {
		// previous rows stay visible under the error message
		c.errMsg = err.Error()
		c.table.Update(c.propsLocked())
		c.mu.Unlock()

		c.logger.Warn("fetch page failed", zap.Uint64("seq", req.Seq), zap.Error(err))
		if c.onError != nil {
			c.onError(err)
		}
		return err
	}

	c.rows = resp.Results
	c.total = resp.Total
	c.errMsg = ""
	c.table.Update(c.propsLocked())
	c.mu.Unlock()

	if c.counters != nil {
		c.counters.Set(c.id, int64(resp.Total))
	}
	return nil
}

// requestLocked maps the sort column and the searchable columns onto their
// data paths.
func (c *Controller) requestLocked(seq uint64) pagedview.PageRequest {
	var match query.Expr
	if c.term.Valid {
		match = query.Search(c.term.String, c.table.SearchFields()...)
	}
	var sort string
	if !c.sort.IsZero() {
		sort = c.table.SortField(c.sort.Name)
	}
	return pagedview.PageRequest{
		Filter: query.And(c.filter, match),
		Limit:  c.limit,
		Sort:   sort,
		Order:  c.sort.Order.Normalize(),
		Page:   c.page,
		Seq:    seq,
	}
}

func (c *Controller) propsLocked() table.Props {
	return table.Props{
		Rows:     c.rows,
		Total:    c.total,
		Loading:  c.loading,
		Sort:     c.sort,
		Page:     c.page,
		PageSize: c.limit,
		Error:    c.errMsg,
	}
}

func (c *Controller) restore(ctx context.Context) {
	if c.store == nil {
		return
	}

	state, ok, err := settings.LoadTable(ctx, c.store, c.id)
	if err != nil {
		c.logger.Warn("load table settings failed", zap.Error(err))
		return
	}
	if !ok {
		return
	}

	sortable := state.Sort != nil && c.table.Sortable(state.Sort.Name)

	c.mu.Lock()
	if state.PageSize.Valid {
		c.limit = c.config.EffectiveLimit(state.PageSize.Int)
	}
	if sortable {
		c.sort = pagedview.Sort{Name: state.Sort.Name, Order: state.Sort.Order.Normalize()}
	}
	c.page = 1
	limit, sort := c.limit, c.sort
	c.mu.Unlock()

	c.table.RestoreColumns(state.Hidden)
	c.logger.Debug("restored table settings", zap.Int("limit", limit), zap.String("sort", sort.Name))
}

func (c *Controller) save(hidden []string) {
	if c.store == nil {
		return
	}

	c.mu.Lock()
	state := settings.TableState{
		PageSize: null.IntFrom(c.limit),
		Hidden:   hidden,
	}
	if !c.sort.IsZero() {
		sort := c.sort
		state.Sort = &sort
	}
	c.mu.Unlock()

	if err := settings.SaveTable(c.ctx, c.store, c.id, state); err != nil {
		c.logger.Warn("save table settings failed", zap.Error(err))
	}
}
