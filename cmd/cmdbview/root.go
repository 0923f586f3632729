package main

import (
	"github.com/friendsofgo/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nrfta/pagedview/internal/config"
	"github.com/nrfta/pagedview/internal/logging"
)

// app holds what every subcommand needs once flags are parsed.
type app struct {
	cfgFile string
	cfg     *config.Configuration
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "cmdbview",
		Short:         "Browse CMDB collections page by page",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Development)
			if err != nil {
				return errors.Wrap(err, "init logger")
			}
			a.cfg, a.logger = cfg, logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/cmdbview/config.yaml or ./config.yaml)")
	flags.String("backend.url", "", "base URL of the CMDB REST API")
	flags.String("backend.token", "", "bearer token sent to the backend")
	flags.String("logging.level", "", "log level: debug, info, warn, error")
	flags.Bool("logging.development", false, "human readable log output")
	flags.String("settings.dialect", "", "settings store: sqlite3 or postgres")
	flags.String("settings.dsn", "", "settings store DSN, empty disables saved table settings")

	root.AddCommand(newListCmd(a), newServeCmd(a))
	return root
}
