package pagedview

import "fmt"

const (
	// DefaultPageSize is the number of rows per page when none is requested.
	DefaultPageSize = 10

	// DefaultMaxPageSize caps requested page sizes.
	DefaultMaxPageSize = 1000

	// DefaultMaxPages is the number of page links shown by a pager.
	DefaultMaxPages = 5
)

// DefaultPageSizes are the choices offered by a table footer.
var DefaultPageSizes = []int{10, 25, 50, 100}

// PageConfig holds the paging defaults of a screen.
// Use NewPageConfig() to create a config with sensible defaults,
// then customize using the With* methods.
//
// Example:
//
//	config := pagedview.NewPageConfig().WithDefaultSize(25).WithMaxPages(7)
//	req := config.Normalize(req)
type PageConfig struct {
	// DefaultSize is the page size used when none is requested.
	DefaultSize int

	// MaxSize is the largest allowed page size. Larger requests are capped
	// by EffectiveLimit and rejected by Validate.
	MaxSize int

	// MaxPages is the number of page links a pager shows at once.
	MaxPages int

	// PageSizes lists the page sizes a table footer offers.
	PageSizes []int
}

// NewPageConfig creates a PageConfig with sensible defaults:
// - DefaultSize: 10
// - MaxSize: 1000
// - MaxPages: 5
// - PageSizes: 10, 25, 50, 100
func NewPageConfig() *PageConfig {
	return &PageConfig{
		DefaultSize: DefaultPageSize,
		MaxSize:     DefaultMaxPageSize,
		MaxPages:    DefaultMaxPages,
		PageSizes:   append([]int(nil), DefaultPageSizes...),
	}
}

// WithDefaultSize sets the default page size and returns the config for chaining.
func (c *PageConfig) WithDefaultSize(size int) *PageConfig {
	if size > 0 {
		c.DefaultSize = size
	}
	return c
}

// WithMaxSize sets the maximum page size and returns the config for chaining.
func (c *PageConfig) WithMaxSize(size int) *PageConfig {
	if size > 0 {
		c.MaxSize = size
	}
	return c
}

// WithMaxPages sets the number of visible page links and returns the config for chaining.
func (c *PageConfig) WithMaxPages(n int) *PageConfig {
	if n > 0 {
		c.MaxPages = n
	}
	return c
}

// WithPageSizes sets the page size choices and returns the config for chaining.
// Non-positive sizes are dropped.
func (c *PageConfig) WithPageSizes(sizes ...int) *PageConfig {
	kept := make([]int, 0, len(sizes))
	for _, s := range sizes {
		if s > 0 {
			kept = append(kept, s)
		}
	}
	if len(kept) > 0 {
		c.PageSizes = kept
	}
	return c
}

// EffectiveLimit returns the page size to use, applying defaults and caps.
// - If limit is zero or negative, returns DefaultSize
// - If limit exceeds MaxSize, returns MaxSize
// - Otherwise returns limit
func (c *PageConfig) EffectiveLimit(limit int) int {
	if c == nil {
		c = NewPageConfig()
	}

	defaultSize := c.DefaultSize
	if defaultSize <= 0 {
		defaultSize = DefaultPageSize
	}

	maxSize := c.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxPageSize
	}

	if limit <= 0 {
		return defaultSize
	}

	if limit > maxSize {
		return maxSize
	}

	return limit
}

// EffectiveMaxPages returns MaxPages, or DefaultMaxPages when unset.
func (c *PageConfig) EffectiveMaxPages() int {
	if c == nil || c.MaxPages <= 0 {
		return DefaultMaxPages
	}
	return c.MaxPages
}

// Validate checks if the page size exceeds MaxSize and returns an error if so.
// Unlike EffectiveLimit which caps silently, Validate returns an error for
// explicit rejection of invalid requests.
func (c *PageConfig) Validate(limit int) error {
	if c == nil {
		c = NewPageConfig()
	}

	maxSize := c.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxPageSize
	}

	if limit > maxSize {
		return &PageSizeError{
			Requested: limit,
			Maximum:   maxSize,
		}
	}

	return nil
}

// Normalize returns a copy of req with an effective limit, a page of at
// least 1 and a valid order. It never fails.
func (c *PageConfig) Normalize(req PageRequest) PageRequest {
	req.Limit = c.EffectiveLimit(req.Limit)
	if req.Page < 1 {
		req.Page = 1
	}
	req.Order = req.Order.Normalize()
	return req
}

// PageSizeError is returned when the requested page size exceeds the maximum allowed.
type PageSizeError struct {
	Requested int
	Maximum   int
}

func (e *PageSizeError) Error() string {
	return fmt.Sprintf("requested page size %d exceeds maximum allowed page size of %d",
		e.Requested, e.Maximum)
}
