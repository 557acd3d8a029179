// Package cli implements the outcomesctl operator commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/runwaylab/outcomes-lab-backend/pkg/config"
	"github.com/runwaylab/outcomes-lab-backend/pkg/db"
	"github.com/runwaylab/outcomes-lab-backend/pkg/logger"
	"github.com/runwaylab/outcomes-lab-backend/pkg/redis"
	"github.com/runwaylab/outcomes-lab-backend/pkg/version"
)

const (
	binaryName     = "outcomesctl"
	configFileName = "outcomesctl"
)

// reportCache is the part of the redis client the dataset commands need.
type reportCache interface {
	DeleteAnalytics(ctx context.Context) (int, error)
	Close() error
}

type cacheOpener func(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (reportCache, error)

// state is shared by every subcommand of one root command.
type state struct {
	v         *viper.Viper
	cfgFile   string
	cfg       *config.Config
	logg      *logger.Logger
	openCache cacheOpener
}

// Execute runs the CLI with the process arguments.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// NewRootCommand builds an isolated command tree; tests build one per case.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&state{v: viper.New(), openCache: openRedis})
}

func newRootCommand(st *state) *cobra.Command {
	root := &cobra.Command{
		Use:   binaryName,
		Short: "Operator tooling for the Runway Outcomes Lab dataset",
		Long: `outcomesctl loads the TheLook CSV exports, seeds synthetic data,
exports the analytics reports to XLSX and checks database connectivity.

Settings come from OUTCOMES_* environment variables (and .env), then
./outcomesctl.yaml, then command-line flags, with flags winning.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return st.init(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&st.cfgFile, "config", "", "config file (default: ./outcomesctl.yaml)")
	flags.String("dsn", "", "database DSN (overrides OUTCOMES_DB_DSN)")
	flags.String("driver", "", "database driver: postgres or sqlite")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	bindFlags(st.v, root, map[string]string{
		"dsn":       "dsn",
		"driver":    "driver",
		"log_level": "log-level",
	})

	root.AddCommand(
		newVersionCommand(),
		newPingCommand(st),
		newLoadCommand(st),
		newSeedCommand(st),
		newExportCommand(st),
	)
	return root
}

func (st *state) init(cmd *cobra.Command) error {
	_ = godotenv.Load()

	if err := st.readConfigFile(); err != nil {
		return err
	}

	cfg, err := config.Load(
		config.WithDriver(st.v.GetString("driver")),
		config.WithDSN(st.v.GetString("dsn")),
	)
	if err != nil {
		return err
	}
	st.cfg = cfg

	level := cfg.App.LogLevel
	if override := st.v.GetString("log_level"); override != "" {
		level = override
	}
	st.logg = logger.New(logger.Options{
		ServiceName: binaryName,
		Level:       logger.ParseLevel(level),
		WarnStack:   cfg.App.LogWarnStack,
		Output:      cmd.ErrOrStderr(),
		Format:      "console",
	})
	return nil
}

func (st *state) readConfigFile() error {
	v := st.v
	v.SetConfigName(configFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", binaryName))
	}
	if st.cfgFile != "" {
		v.SetConfigFile(st.cfgFile)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && st.cfgFile == "" {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

func (st *state) openDB(ctx context.Context) (*db.Client, error) {
	client, err := db.New(ctx, st.cfg.DB, st.logg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return client, nil
}

func closeDB(logg *logger.Logger, client *db.Client) {
	if err := client.Close(); err != nil {
		logg.Error(context.Background(), "error closing database", err)
	}
}

func openRedis(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (reportCache, error) {
	client, err := redis.New(ctx, cfg, logg)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// invalidateReports drops the cached analytics after the dataset changed. A cache failure is
// logged and does not fail the command; stale entries then expire with their TTL.
func (st *state) invalidateReports(cmd *cobra.Command) {
	if !st.cfg.Redis.Enabled() {
		return
	}
	ctx := cmd.Context()
	cache, err := st.openCache(ctx, st.cfg.Redis, st.logg)
	if err != nil {
		st.logg.Warn(st.logg.WithField(ctx, "error", err.Error()), "cache.invalidate_failed")
		return
	}
	defer func() {
		if err := cache.Close(); err != nil {
			st.logg.Error(ctx, "error closing redis", err)
		}
	}()

	deleted, err := cache.DeleteAnalytics(ctx)
	if err != nil {
		st.logg.Warn(st.logg.WithField(ctx, "error", err.Error()), "cache.invalidate_failed")
		return
	}
	st.logg.Info(st.logg.WithField(ctx, "keys", deleted), "cache.invalidated")
	fmt.Fprintf(cmd.OutOrStdout(), "cleared %d cached reports\n", deleted)
}

// bindFlags maps viper keys to flag names on cmd so flags win over the config file.
func bindFlags(v *viper.Viper, cmd *cobra.Command, keys map[string]string) {
	for key, name := range keys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			flag = cmd.PersistentFlags().Lookup(name)
		}
		if err := v.BindPFlag(key, flag); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", name, err))
		}
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Info(binaryName))
		},
	}
}
