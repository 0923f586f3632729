package screen

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/nrfta/pagedview"
	"github.com/nrfta/pagedview/query"
	"github.com/nrfta/pagedview/registry"
	"github.com/nrfta/pagedview/search"
	"github.com/nrfta/pagedview/settings"
)

// Option configures a Controller.
type Option func(*Controller)

// WithID sets the stable table id used for settings and counters. A random
// id is used otherwise, which disables settings restore across runs.
func WithID(id string) Option {
	return func(c *Controller) {
		c.id = id
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithContext sets the context of fetches triggered by table events.
func WithContext(ctx context.Context) Option {
	return func(c *Controller) {
		c.ctx = ctx
	}
}

// WithPageConfig sets the page size defaults, limits and pager width.
func WithPageConfig(config *pagedview.PageConfig) Option {
	return func(c *Controller) {
		c.config = config
	}
}

// WithSearchDelay sets the debounce delay of the search input.
func WithSearchDelay(d time.Duration) Option {
	return func(c *Controller) {
		c.searchDelay = d
	}
}

// WithSortPolicy sets the direction chosen on header clicks.
func WithSortPolicy(policy search.SortPolicy) Option {
	return func(c *Controller) {
		c.sortPolicy = policy
	}
}

// WithSort sets the initial sort.
func WithSort(name string, order pagedview.Order) Option {
	return func(c *Controller) {
		c.sort = pagedview.Sort{Name: name, Order: order.Normalize()}
	}
}

// WithBaseFilter sets a filter combined with every search, such as the
// object type a list is restricted to.
func WithBaseFilter(filter query.Expr) Option {
	return func(c *Controller) {
		c.filter = filter
	}
}

// WithStore persists page size, sort and hidden columns.
func WithStore(store settings.Store) Option {
	return func(c *Controller) {
		c.store = store
	}
}

// WithCounters publishes the total of every applied page under the
// controller id.
func WithCounters(counters *registry.Counters) Option {
	return func(c *Controller) {
		c.counters = counters
	}
}

// WithOnError sets the hook receiving fetch failures.
func WithOnError(fn func(error)) Option {
	return func(c *Controller) {
		c.onError = fn
	}
}
