package main

import (
	"go.uber.org/zap"

	"github.com/spf13/cobra"

	"github.com/ritamzico/overpassql/internal/clierr"
	"github.com/ritamzico/overpassql/internal/config"
	"github.com/ritamzico/overpassql/internal/log"
)

var (
	cfg        *config.Config
	configPath string
	logger     *zap.Logger

	cfgFile string
	verbose int
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "overpassql",
	Short: "Overpass QL to SQL compiler",
	Long: `overpassql - Overpass QL to SQL compiler

overpassql translates Overpass query language requests into SQL statements
against a PostGIS-style relational schema, targeting PostgreSQL+PostGIS or
DuckDB spatial.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "version" {
			return nil
		}

		var err error
		cfg, configPath, err = config.Load(cfgFile)
		if err != nil {
			return clierr.ConfigError("loading configuration", err)
		}

		logger, err = log.New(verbose, quiet)
		if err != nil {
			return clierr.GeneralError("initializing logger", err)
		}

		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: auto-discover overpassql.yaml)")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "increase verbosity (can be repeated)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		clierr.ExitWithError(err)
	}
}

func resolveString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
