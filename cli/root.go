package cli

import (
	"context"
	"errors"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/spf13/cobra"

	"funpass/config"
)

// RootConfig carries the global flags shared by every subcommand.
type RootConfig struct {
	ConfigPath string
	DBDriver   string
	DBURL      string
	LogLevel   string
}

// Load reads the configuration file and environment, then applies the
// flags that were set explicitly.
func (rc *RootConfig) Load() (config.Config, error) {
	cfg, err := config.Load(rc.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}

	if rc.DBDriver != "" {
		cfg.Database.Driver = rc.DBDriver
	}
	if rc.DBURL != "" {
		cfg.Database.URL = rc.DBURL
	}
	if rc.LogLevel != "" {
		cfg.Log.Level = rc.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	level, err := cfg.LogLevel()
	if err != nil {
		return config.Config{}, err
	}
	log.Init(level)

	return cfg, nil
}

func New() *cobra.Command {
	rc := &RootConfig{}

	cmd := &cobra.Command{
		Use:   "funpass",
		Short: "FunPass theme park admin console: pass pricing",
		Long: `FunPass manages the prices of the six park passes.

Prices are kept in a SQLite file by default (or Postgres) and can be
edited through the HTTP admin API, the terminal pricing screen or the
prices subcommands.

Examples:
  funpass serve
  funpass tui
  funpass prices set "Junior Pass=950" "PWD Pass=850.50"
  funpass prices reset`,
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&rc.ConfigPath, "config", "c", "", "path to YAML config file")
	flags.StringVar(&rc.DBDriver, "db-driver", "", "database driver: sqlite3 or postgres")
	flags.StringVar(&rc.DBURL, "db-url", "", "database file or connection string")
	flags.StringVar(&rc.LogLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newServeCmd(rc),
		newTUICmd(rc),
		newPricesCmd(rc),
	)

	return cmd
}

func Execute() error {
	return New().Execute()
}

type closer interface {
	Close(ctx context.Context) error
}

// closeInto closes c and joins its error into *err.
func closeInto(err *error, c closer) {
	*err = errors.Join(*err, c.Close(context.Background()))
}
