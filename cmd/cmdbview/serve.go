package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/friendsofgo/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nrfta/pagedview"
	"github.com/nrfta/pagedview/internal/fakebackend"
	"github.com/nrfta/pagedview/memsource"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve <fixture.json>...",
		Short: "Serve JSON fixtures as paged collections",
		Long: `Serve every fixture file as a collection named after the file:
objects.json is served under GET /objects. A fixture is a JSON array of
rows or a page object with a "results" array.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			return a.serve(cmd.Context(), addr, args)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}

func (a *app) serve(ctx context.Context, addr string, fixtures []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	server, err := loadFixtures(fixtures, a.cfg.PageConfig(), a.logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		a.logger.Info("serving collections", zap.String("addr", addr), zap.Strings("collections", server.Collections()))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "listen")
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func loadFixtures(paths []string, pageConfig *pagedview.PageConfig, logger *zap.Logger) (*fakebackend.Server, error) {
	server := fakebackend.New(logger)
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "open fixture")
		}
		rows, err := memsource.Decode(f)
		f.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "fixture %s", path)
		}

		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		server.Register(name, memsource.New(rows,
			memsource.WithPageConfig(pageConfig),
			memsource.WithLogger(logger),
		))
	}
	return server, nil
}
