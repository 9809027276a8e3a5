package cmd

import (
	"github.com/spf13/cobra"

	"github.com/simonvc/lbcoa/internal/config"
	"github.com/simonvc/lbcoa/internal/logger"
)

var (
	flagServer string
	flagDB     string
	flagConfig string
)

// Populated by the root command's PersistentPreRunE.
var (
	cfg *config.Config
	log *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "lbcoa",
	Short: "Lebanese chart of accounts for company ledgers",
	Long: "Provisions companies with the Lebanese standard chart of accounts, its default accounts, " +
		"cost centers, warehouses and VAT templates, and serves Arabic and French account labels.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("db") {
			cfg.Database.Path = flagDB
		}
		log, err = logger.New(logger.Config{
			Level:       cfg.Log.Level,
			Development: cfg.Log.Development,
		})
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "http://localhost:8888", "Server address")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "lbcoa.db", "SQLite database path")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "lbcoa.yaml", "Config file path")
}

func Execute() error {
	return rootCmd.Execute()
}
