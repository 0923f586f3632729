// Package sqlboiler serves paged collections from SQLBoiler models.
//
// A Source implements pagedview.Fetcher: it validates the requested sort
// against a Schema, turns the filter predicate into a WHERE clause, applies
// offset pagination and encodes every model as a JSON row.
//
// Example usage:
//
//	source := sqlboiler.NewSource(
//	    func(ctx context.Context, mods ...qm.QueryMod) ([]*models.Object, error) {
//	        return models.Objects(mods...).All(ctx, db)
//	    },
//	    func(ctx context.Context, mods ...qm.QueryMod) (int64, error) {
//	        return models.Objects(mods...).Count(ctx, db)
//	    },
//	    objectSchema,
//	)
//
//	resp, err := source.FetchPage(ctx, pagedview.PageRequest{Page: 2, Limit: 25, Sort: "public_id"})
package sqlboiler

import (
	"context"

	"github.com/aarondl/sqlboiler/v4/queries/qm"
	"github.com/friendsofgo/errors"
	"go.uber.org/zap"

	"github.com/nrfta/pagedview"
	"github.com/nrfta/pagedview/offset"
)

// QueryFunc executes a SQLBoiler query and returns results.
//
// Type parameter T is the SQLBoiler model type (e.g., *models.Object).
type QueryFunc[T any] func(ctx context.Context, mods ...qm.QueryMod) ([]T, error)

// CountFunc executes a SQLBoiler count query.
type CountFunc func(ctx context.Context, mods ...qm.QueryMod) (int64, error)

// Source implements pagedview.Fetcher for SQLBoiler queries.
type Source[T any] struct {
	queryFunc QueryFunc[T]
	countFunc CountFunc
	schema    *Schema
	config    *pagedview.PageConfig
	transform func(T) (any, error)
	baseMods  []qm.QueryMod
	logger    *zap.Logger
}

// SourceOption configures a Source.
type SourceOption[T any] func(*Source[T])

// WithPageConfig sets the page size defaults and limits.
func WithPageConfig[T any](config *pagedview.PageConfig) SourceOption[T] {
	return func(s *Source[T]) {
		s.config = config
	}
}

// WithTransform sets the function turning a model into the row shape the
// table sees. By default models are encoded as they are.
func WithTransform[T any](transform func(T) (any, error)) SourceOption[T] {
	return func(s *Source[T]) {
		s.transform = transform
	}
}

// WithBaseMods adds query mods to every query, such as a soft-delete filter
// or a join.
func WithBaseMods[T any](mods ...qm.QueryMod) SourceOption[T] {
	return func(s *Source[T]) {
		s.baseMods = append(s.baseMods, mods...)
	}
}

// WithLogger sets the logger.
func WithLogger[T any](logger *zap.Logger) SourceOption[T] {
	return func(s *Source[T]) {
		s.logger = logger
	}
}

// NewSource creates a new SQLBoiler source.
//
// Parameters:
//   - queryFunc: Function that executes SQLBoiler queries with query mods
//   - countFunc: Function that counts total records with query mods
//   - schema: Whitelist of sortable and filterable fields
func NewSource[T any](
	queryFunc QueryFunc[T],
	countFunc CountFunc,
	schema *Schema,
	opts ...SourceOption[T],
) *Source[T] {
	s := &Source[T]{
		queryFunc: queryFunc,
		countFunc: countFunc,
		schema:    schema,
		config:    pagedview.NewPageConfig(),
		transform: func(item T) (any, error) { return item, nil },
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchPage returns one page of models encoded as rows.
//
// The count query receives the base and filter mods only; the page query
// additionally receives ORDER BY, OFFSET and LIMIT.
func (s *Source[T]) FetchPage(ctx context.Context, req pagedview.PageRequest) (*pagedview.PageResponse, error) {
	if err := s.config.Validate(req.Limit); err != nil {
		return nil, err
	}
	req = s.config.Normalize(req)

	orderBy, err := s.schema.OrderBy(pagedview.Sort{Name: req.Sort, Order: req.Order})
	if err != nil {
		return nil, err
	}

	where, err := Where(req.Filter, s.schema.Column)
	if err != nil {
		return nil, errors.Wrap(err, "build filter")
	}

	filterMods := make([]qm.QueryMod, 0, len(s.baseMods)+len(where))
	filterMods = append(filterMods, s.baseMods...)
	filterMods = append(filterMods, where...)

	paginator := offset.New(req, s.config)
	pageMods := append(append([]qm.QueryMod{}, filterMods...), OffsetToQueryMods(paginator, orderBy)...)

	items, err := s.queryFunc(ctx, pageMods...)
	if err != nil {
		return nil, errors.Wrap(err, "query page")
	}

	total, err := s.countFunc(ctx, filterMods...)
	if err != nil {
		return nil, errors.Wrap(err, "count rows")
	}

	s.logger.Debug("fetched page",
		zap.Int("page", paginator.Page),
		zap.Int("limit", paginator.Limit),
		zap.Int("rows", len(items)),
		zap.Int64("total", total),
	)

	return pagedview.BuildResponse(items, total, s.transform)
}
