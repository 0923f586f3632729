package main

import (
	"context"
	"net/http"
	"strings"

	"github.com/friendsofgo/errors"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/nrfta/pagedview"
	"github.com/nrfta/pagedview/column"
	"github.com/nrfta/pagedview/httpsource"
	"github.com/nrfta/pagedview/query"
	"github.com/nrfta/pagedview/screen"
	"github.com/nrfta/pagedview/settings"
	"github.com/nrfta/pagedview/table"
)

type listOptions struct {
	page    int
	limit   int
	sort    string
	desc    bool
	search  string
	filter  string
	columns []string
}

func newListCmd(a *app) *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:   "list <collection>",
		Short: "Print one page of a collection as a table",
		Example: `  cmdbview list objects --limit 25 --page 2
  cmdbview list objects --columns public_id,type_id,fields.hostname --sort public_id --desc
  cmdbview list objects --search srv --filter '{"type_id": 4}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.list(cmd, args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.page, "page", 1, "page number")
	flags.IntVar(&opts.limit, "limit", 0, "rows per page (default from config or saved settings)")
	flags.StringVar(&opts.sort, "sort", "", "column to sort on")
	flags.BoolVar(&opts.desc, "desc", false, "sort descending")
	flags.StringVar(&opts.search, "search", "", "free text searched in all columns")
	flags.StringVar(&opts.filter, "filter", "", "MongoDB style filter document in extended JSON")
	flags.StringSliceVar(&opts.columns, "columns", nil, "data paths to show (default: top-level fields of the first row)")
	return cmd
}

func (a *app) list(cmd *cobra.Command, collection string, opts listOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	clientOpts := []httpsource.Option{
		httpsource.WithHTTPClient(&http.Client{Timeout: a.cfg.Backend.Timeout}),
		httpsource.WithLogger(a.logger),
	}
	if a.cfg.Backend.Token != "" {
		clientOpts = append(clientOpts, httpsource.WithHeader("Authorization", "Bearer "+a.cfg.Backend.Token))
	}
	client, err := httpsource.New(a.cfg.Backend.URL, collection, clientOpts...)
	if err != nil {
		return err
	}

	filter, err := parseFilter(opts.filter)
	if err != nil {
		return err
	}

	columns, err := a.columns(ctx, client, filter, opts.columns)
	if err != nil {
		return err
	}

	screenOpts := []screen.Option{
		screen.WithID("cmdbview:" + collection),
		screen.WithLogger(a.logger),
		screen.WithContext(ctx),
		screen.WithPageConfig(a.cfg.PageConfig()),
		screen.WithSearchDelay(a.cfg.Search.Debounce),
		screen.WithBaseFilter(filter),
	}
	if a.cfg.Settings.DSN != "" {
		store, err := settings.Open(ctx, settings.Dialect(a.cfg.Settings.Dialect), a.cfg.Settings.DSN, settings.WithLogger(a.logger))
		if err != nil {
			a.logger.Warn("saved table settings unavailable", zap.Error(err))
		} else {
			defer store.Close()
			screenOpts = append(screenOpts, screen.WithStore(store))
		}
	}

	ctrl := screen.New(client, columns, screenOpts...)
	defer ctrl.Close()

	if err := ctrl.Load(ctx); err != nil {
		return err
	}
	if err := applyListOptions(ctx, ctrl, opts); err != nil {
		return err
	}
	if msg := ctrl.State().Error; msg != "" {
		return errors.New(msg)
	}

	return table.Render(cmd.OutOrStdout(), ctrl.Table().View())
}

// applyListOptions replays the command line as user intents. Each one
// triggers its own fetch, like clicks on a screen would.
func applyListOptions(ctx context.Context, ctrl *screen.Controller, opts listOptions) error {
	t := ctrl.Table()

	if opts.limit > 0 {
		t.SelectPageSize(opts.limit)
	}
	if opts.sort != "" {
		order := pagedview.Ascending
		if opts.desc {
			order = pagedview.Descending
		}
		if err := ctrl.SetSort(ctx, pagedview.Sort{Name: opts.sort, Order: order}); err != nil {
			return err
		}
	}
	if strings.TrimSpace(opts.search) != "" {
		t.TypeSearch(opts.search)
		t.SubmitSearch()
	}
	if opts.page > 1 {
		t.SelectPage(opts.page)
	}
	return nil
}

// columns builds the column set from --columns, or from the top-level
// fields of the first row matching filter.
func (a *app) columns(ctx context.Context, f pagedview.Fetcher, filter query.Expr, paths []string) (*column.Set, error) {
	if len(paths) == 0 {
		probe, err := f.FetchPage(ctx, pagedview.PageRequest{Filter: filter, Limit: 1, Page: 1})
		if err != nil {
			return nil, errors.Wrap(err, "probe columns")
		}
		if len(probe.Results) > 0 {
			paths = inferPaths(probe.Results[0])
		}
	}
	if len(paths) == 0 {
		return nil, errors.New("no columns: pass --columns or list a non-empty collection")
	}

	cols := make([]column.Column, 0, len(paths))
	for _, p := range paths {
		p = strings.TrimSpace(p)
		cols = append(cols, column.Column{
			Display:    p[strings.LastIndex(p, ".")+1:],
			Name:       p,
			Sortable:   true,
			Searchable: true,
		})
	}
	return column.NewSet(cols...)
}

// inferPaths lists the scalar top-level fields of row.
func inferPaths(row pagedview.Row) []string {
	var paths []string
	gjson.ParseBytes(row).ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() && !value.IsArray() {
			paths = append(paths, key.String())
		}
		return true
	})
	return paths
}

func parseFilter(raw string) (query.Expr, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var doc bson.D
	if err := bson.UnmarshalExtJSON([]byte(raw), false, &doc); err != nil {
		return nil, errors.Wrap(err, "parse --filter")
	}
	e, err := query.ParseMongo(doc)
	if err != nil {
		return nil, errors.Wrap(err, "parse --filter")
	}
	return e, nil
}
