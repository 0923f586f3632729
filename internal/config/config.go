// Package config loads the cmdbview configuration from a YAML file,
// PAGEDVIEW_* environment variables and command line flags.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/friendsofgo/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/nrfta/pagedview"
	"github.com/nrfta/pagedview/search"
	"github.com/nrfta/pagedview/settings"
)

// EnvPrefix prefixes every environment variable, e.g. PAGEDVIEW_BACKEND_URL.
const EnvPrefix = "PAGEDVIEW"

type Configuration struct {
	Backend struct {
		URL     string        `mapstructure:"url"`
		Token   string        `mapstructure:"token"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"backend"`
	Paging struct {
		PageSize    int   `mapstructure:"page_size"`
		MaxPageSize int   `mapstructure:"max_page_size"`
		MaxPages    int   `mapstructure:"max_pages"`
		PageSizes   []int `mapstructure:"page_sizes"`
	} `mapstructure:"paging"`
	Search struct {
		Debounce time.Duration `mapstructure:"debounce"`
	} `mapstructure:"search"`
	Settings struct {
		Dialect string `mapstructure:"dialect"`
		DSN     string `mapstructure:"dsn"`
	} `mapstructure:"settings"`
	Server struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"server"`
	Logging struct {
		Level       string `mapstructure:"level"`
		Development bool   `mapstructure:"development"`
	} `mapstructure:"logging"`
}

// DefaultConfigDir returns the directory searched for config.yaml and
// holding the default settings database.
func DefaultConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "cmdbview")
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("backend.url", "http://localhost:8080/api")
	v.SetDefault("backend.token", "")
	v.SetDefault("backend.timeout", 30*time.Second)
	v.SetDefault("paging.page_size", pagedview.DefaultPageSize)
	v.SetDefault("paging.max_page_size", pagedview.DefaultMaxPageSize)
	v.SetDefault("paging.max_pages", pagedview.DefaultMaxPages)
	v.SetDefault("paging.page_sizes", pagedview.DefaultPageSizes)
	v.SetDefault("search.debounce", search.DefaultDelay)
	v.SetDefault("settings.dialect", string(settings.SQLite))
	v.SetDefault("settings.dsn", filepath.Join(DefaultConfigDir(), "settings.db"))
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.development", false)
}

// Load reads the configuration. cfgFile may be empty, in which case
// config.yaml is looked up in the default config dir and the working
// directory; a missing file is not an error. Flags in fs, when given, are
// bound by their key name ("backend.url" <- --backend.url).
func Load(cfgFile string, fs *pflag.FlagSet) (*Configuration, error) {
	v := viper.New()
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(DefaultConfigDir())
		v.AddConfigPath(".")
		v.SetConfigName("config")
	}
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, errors.Wrap(err, "bind flags")
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrapf(err, "read config %s", v.ConfigFileUsed())
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the loaded values.
func (c *Configuration) Validate() error {
	if c.Paging.PageSize <= 0 {
		return errors.Errorf("paging.page_size must be positive, got %d", c.Paging.PageSize)
	}
	if c.Paging.MaxPageSize < c.Paging.PageSize {
		return errors.Errorf("paging.max_page_size %d is below paging.page_size %d", c.Paging.MaxPageSize, c.Paging.PageSize)
	}
	if c.Paging.MaxPages <= 0 {
		return errors.Errorf("paging.max_pages must be positive, got %d", c.Paging.MaxPages)
	}
	switch settings.Dialect(c.Settings.Dialect) {
	case settings.SQLite, settings.Postgres, "":
	default:
		return errors.Errorf("unsupported settings.dialect %q", c.Settings.Dialect)
	}
	return nil
}

// PageConfig returns the paging section as a page config.
func (c *Configuration) PageConfig() *pagedview.PageConfig {
	return pagedview.NewPageConfig().
		WithDefaultSize(c.Paging.PageSize).
		WithMaxSize(c.Paging.MaxPageSize).
		WithMaxPages(c.Paging.MaxPages).
		WithPageSizes(c.Paging.PageSizes...)
}
