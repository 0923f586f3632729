// Package memsource serves paged collections from rows held in memory.
//
// It evaluates filters with query.Match and sorts on the value found at the
// sort path, so it behaves like the REST backend for tests, fixtures and the
// fake backend.
package memsource

import (
	"context"
	"encoding/json"
	"io"
	"sort"
	"sync"

	"github.com/friendsofgo/errors"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/nrfta/pagedview"
	"github.com/nrfta/pagedview/query"
)

// Source implements pagedview.Fetcher over a slice of rows.
type Source struct {
	mu     sync.RWMutex
	rows   []pagedview.Row
	config *pagedview.PageConfig
	logger *zap.Logger
}

// Option configures a Source.
type Option func(*Source)

// WithPageConfig sets the page size defaults and limits.
func WithPageConfig(config *pagedview.PageConfig) Option {
	return func(s *Source) {
		s.config = config
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Source) {
		s.logger = logger
	}
}

// New creates a Source holding a copy of rows.
func New(rows []pagedview.Row, opts ...Option) *Source {
	s := &Source{
		rows:   append([]pagedview.Row(nil), rows...),
		config: pagedview.NewPageConfig(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Decode reads a fixture: either a JSON array of rows or a page object
// with a "results" array.
func Decode(r io.Reader) ([]pagedview.Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read rows")
	}

	var rows []pagedview.Row
	if gjson.GetBytes(data, "results").IsArray() {
		var page pagedview.PageResponse
		if err := json.Unmarshal(data, &page); err != nil {
			return nil, errors.Wrap(err, "decode page")
		}
		rows = page.Results
	} else if err := json.Unmarshal(data, &rows); err != nil {
		return nil, errors.Wrap(err, "decode rows")
	}

	for i, row := range rows {
		if !gjson.ValidBytes(row) {
			return nil, errors.Errorf("row %d is not valid JSON", i)
		}
	}
	return rows, nil
}

// Add appends rows.
func (s *Source) Add(rows ...pagedview.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, rows...)
}

// Replace swaps the held rows for a copy of rows.
func (s *Source) Replace(rows []pagedview.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append([]pagedview.Row(nil), rows...)
}

// Len returns the number of held rows.
func (s *Source) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// FetchPage filters, sorts and pages the held rows.
//
// Rows are ordered by the value at req.Sort (missing values first when
// ascending); ties keep insertion order. A page past the end returns no
// rows but the full total.
func (s *Source) FetchPage(ctx context.Context, req pagedview.PageRequest) (*pagedview.PageResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.config.Validate(req.Limit); err != nil {
		return nil, err
	}
	req = s.config.Normalize(req)

	s.mu.RLock()
	matched := make([]pagedview.Row, 0, len(s.rows))
	for _, row := range s.rows {
		if query.Match(req.Filter, row) {
			matched = append(matched, row)
		}
	}
	s.mu.RUnlock()

	if req.Sort != "" {
		path := query.EscapePath(req.Sort)
		keys := make([]gjson.Result, len(matched))
		for i, row := range matched {
			keys[i] = gjson.GetBytes(row, path)
		}
		idx := make([]int, len(matched))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(a, b int) bool {
			cmp := query.Compare(keys[idx[a]], keys[idx[b]])
			if req.Order.Desc() {
				return cmp > 0
			}
			return cmp < 0
		})
		sorted := make([]pagedview.Row, len(matched))
		for i, j := range idx {
			sorted[i] = matched[j]
		}
		matched = sorted
	}

	start := req.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + req.Limit
	if end > len(matched) {
		end = len(matched)
	}

	results := make([]pagedview.Row, 0, end-start)
	for _, row := range matched[start:end] {
		results = append(results, append(pagedview.Row(nil), row...))
	}

	s.logger.Debug("served page",
		zap.Int("page", req.Page),
		zap.Int("limit", req.Limit),
		zap.String("sort", req.Sort),
		zap.Int("rows", len(results)),
		zap.Int("total", len(matched)),
	)

	return &pagedview.PageResponse{Results: results, Total: len(matched)}, nil
}
